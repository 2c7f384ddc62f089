package auth

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
)

// EmailProof is a DKIM signed header with the offsets of the fields that bind
// it to a key and a digest. Offsets are produced by an external parser.
type EmailProof struct {
	Domain       string
	Selector     string
	Pepper       types.Hash32
	FromStart    uint32
	FromEnd      uint32
	SubjectStart uint32
	SubjectEnd   uint32
	Header       []byte
	Signature    []byte
}

// DecodeEmailProof decodes the record and checks that offsets are within the header.
func DecodeEmailProof(buf []byte) (*EmailProof, error) {
	r := &reader{buf: buf}
	proof := &EmailProof{
		Domain:   string(r.sized()),
		Selector: string(r.sized()),
		Pepper:   r.hash(),
	}
	proof.FromStart = r.u32()
	proof.FromEnd = r.u32()
	proof.SubjectStart = r.u32()
	proof.SubjectEnd = r.u32()
	proof.Header = r.sized()
	proof.Signature = r.sized()
	if r.err != nil {
		return nil, fmt.Errorf("email proof: %w", r.err)
	}
	if !r.empty() {
		return nil, fmt.Errorf("%w: email proof has %d trailing bytes", ErrMalformedProof, len(buf)-r.off)
	}
	size := uint32(len(proof.Header))
	if proof.FromStart > proof.FromEnd || proof.FromEnd > size {
		return nil, fmt.Errorf("%w: from field [%d, %d) out of header", ErrMalformedProof, proof.FromStart, proof.FromEnd)
	}
	if proof.SubjectStart > proof.SubjectEnd || proof.SubjectEnd > size {
		return nil, fmt.Errorf("%w: subject field [%d, %d) out of header",
			ErrMalformedProof, proof.SubjectStart, proof.SubjectEnd)
	}
	return proof, nil
}

// Encode returns the record in the layout read by DecodeEmailProof.
func (p *EmailProof) Encode() []byte {
	buf := appendSized(nil, []byte(p.Domain))
	buf = appendSized(buf, []byte(p.Selector))
	buf = append(buf, p.Pepper[:]...)
	buf = binary.BigEndian.AppendUint32(buf, p.FromStart)
	buf = binary.BigEndian.AppendUint32(buf, p.FromEnd)
	buf = binary.BigEndian.AppendUint32(buf, p.SubjectStart)
	buf = binary.BigEndian.AppendUint32(buf, p.SubjectEnd)
	buf = appendSized(buf, p.Header)
	return appendSized(buf, p.Signature)
}

// From is the sender address.
func (p *EmailProof) From() string {
	return string(p.Header[p.FromStart:p.FromEnd])
}

// Subject is the subject field that carries the digest.
func (p *EmailProof) Subject() string {
	return string(p.Header[p.SubjectStart:p.SubjectEnd])
}

// Handle is the key id derived from the sender address.
func (p *EmailProof) Handle() types.Hash32 {
	return keyset.EmailHandle(p.From(), p.Pepper)
}

// DigestSubject is the subject an email must carry to sign digest.
func DigestSubject(digest types.Hash32) string {
	return "0x" + hex.EncodeToString(digest[:])
}

func (v *Verifier) verifyEmail(ctx context.Context, digest types.Hash32, proof *EmailProof) error {
	if v.emails == nil || v.registry == nil {
		return fmt.Errorf("%w: email", ErrCredentialVerifierNotLoaded)
	}
	from := proof.From()
	at := strings.LastIndexByte(from, '@')
	if at < 0 || !strings.EqualFold(from[at+1:], proof.Domain) {
		return fmt.Errorf("%w: sender %q is not under domain %q", ErrInvalidCredential, from, proof.Domain)
	}
	if !strings.EqualFold(proof.Subject(), DigestSubject(digest)) {
		return fmt.Errorf("%w: email subject does not match digest", ErrInvalidCredential)
	}
	key, err := v.registry.DKIMKey(ctx, proof.Domain, proof.Selector)
	if err != nil {
		return fmt.Errorf("dkim key %s/%s: %w", proof.Domain, proof.Selector, err)
	}
	if key.Expired(v.clock.Now()) {
		return fmt.Errorf("%w: dkim key %s/%s", ErrKeyExpired, proof.Domain, proof.Selector)
	}
	if err := v.emails.VerifyDKIM(key.PublicKey, proof.Header, proof.Signature); err != nil {
		return fmt.Errorf("%w: dkim: %w", ErrInvalidCredential, err)
	}
	return nil
}
