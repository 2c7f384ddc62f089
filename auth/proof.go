package auth

import (
	"encoding/binary"
	"fmt"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
)

// Envelope tags. The first byte of every proof selects the envelope.
const (
	EnvelopeBundle  byte = 0x00
	EnvelopeSession byte = 0x01
)

// Bundle entry flags.
const (
	entryKey    byte = 0
	entrySigned byte = 1
)

// SignatureLength is the size of an r ‖ s ‖ v signature.
const SignatureLength = 65

// Entry is a decoded bundle entry. Key is fully populated after decoding,
// including handles and bindings derived from email and token proofs.
type Entry struct {
	Key       keyset.Key
	Signed    bool
	Signature []byte
	Email     *EmailProof
	Token     *IdentityToken
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrMalformedProof, n, r.off, len(r.buf)-r.off)
		return nil
	}
	rst := r.buf[r.off : r.off+n]
	r.off += n
	return rst
}

func (r *reader) u8() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u64() uint64 {
	if b := r.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (r *reader) sized() []byte {
	n := r.u32()
	if r.err != nil {
		return nil
	}
	return r.take(int(n))
}

func (r *reader) address() types.Address {
	return types.BytesToAddress(r.take(types.AddressLength))
}

func (r *reader) hash() types.Hash32 {
	return types.BytesToHash32(r.take(types.Hash32Length))
}

func (r *reader) empty() bool {
	return r.off == len(r.buf)
}

// DecodeBundle decodes bundle entries without the envelope tag.
func DecodeBundle(buf []byte) ([]Entry, error) {
	r := &reader{buf: buf}
	var entries []Entry
	for !r.empty() {
		entry, err := decodeEntry(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(r *reader) (Entry, error) {
	flag := r.u8()
	kind := keyset.Kind(r.u8())
	if r.err != nil {
		return Entry{}, r.err
	}
	if flag != entryKey && flag != entrySigned {
		return Entry{}, fmt.Errorf("%w: entry flag %d", ErrMalformedProof, flag)
	}
	size, err := kind.PayloadSize()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrUnsupportedCredentialType, err)
	}
	entry := Entry{Key: keyset.Key{Kind: kind}, Signed: flag == entrySigned}
	if !entry.Signed {
		payload := r.take(size)
		switch kind {
		case keyset.KindNative, keyset.KindContract:
			entry.Key.Address = types.BytesToAddress(payload)
		default:
			entry.Key.ID = types.BytesToHash32(payload)
		}
	} else {
		switch kind {
		case keyset.KindNative, keyset.KindContract:
			entry.Key.Address = r.address()
			entry.Signature = r.sized()
			if r.err == nil && kind == keyset.KindNative && len(entry.Signature) != SignatureLength {
				return Entry{}, fmt.Errorf("%w: %d", ErrInvalidSignatureLength, len(entry.Signature))
			}
		case keyset.KindEmail:
			raw := r.sized()
			if r.err != nil {
				break
			}
			proof, err := DecodeEmailProof(raw)
			if err != nil {
				return Entry{}, err
			}
			entry.Email = proof
			entry.Key.ID = proof.Handle()
		case keyset.KindIdentityToken:
			raw := r.sized()
			if r.err != nil {
				break
			}
			token, err := ParseIdentityToken(string(raw))
			if err != nil {
				return Entry{}, err
			}
			entry.Token = token
			entry.Key.ID = token.Binding()
		}
	}
	weight := r.take(keyset.RoleWeightSize)
	if r.err != nil {
		return Entry{}, r.err
	}
	entry.Key.Weight, _ = keyset.DecodeWeight(weight)
	return entry, nil
}

// Bundle builds the proof for a keyset. Keys must be added in keyset order.
type Bundle struct {
	buf []byte
}

// AddKey adds a key that does not sign.
func (b *Bundle) AddKey(key keyset.Key) *Bundle {
	b.buf = append(b.buf, entryKey)
	b.buf = keyset.AppendSerialized(b.buf, key)
	return b
}

// AddNative adds a native key with its signature.
func (b *Bundle) AddNative(key keyset.Key, sig []byte) *Bundle {
	return b.addAddressSigned(keyset.KindNative, key, sig)
}

// AddContract adds a contract key with the signature passed to the contract.
func (b *Bundle) AddContract(key keyset.Key, sig []byte) *Bundle {
	return b.addAddressSigned(keyset.KindContract, key, sig)
}

func (b *Bundle) addAddressSigned(kind keyset.Kind, key keyset.Key, sig []byte) *Bundle {
	b.buf = append(b.buf, entrySigned, byte(kind))
	b.buf = append(b.buf, key.Address.Bytes()...)
	b.buf = appendSized(b.buf, sig)
	b.buf = keyset.AppendWeight(b.buf, key.Weight)
	return b
}

// AddEmail adds an email key proven by the record.
func (b *Bundle) AddEmail(weight keyset.RoleWeight, proof *EmailProof) *Bundle {
	b.buf = append(b.buf, entrySigned, byte(keyset.KindEmail))
	b.buf = appendSized(b.buf, proof.Encode())
	b.buf = keyset.AppendWeight(b.buf, weight)
	return b
}

// AddIdentityToken adds an identity token key proven by a compact token.
func (b *Bundle) AddIdentityToken(weight keyset.RoleWeight, token string) *Bundle {
	b.buf = append(b.buf, entrySigned, byte(keyset.KindIdentityToken))
	b.buf = appendSized(b.buf, []byte(token))
	b.buf = keyset.AppendWeight(b.buf, weight)
	return b
}

// Entries returns the encoded entries without the envelope tag.
func (b *Bundle) Entries() []byte {
	return b.buf
}

// Encode returns the bundle envelope.
func (b *Bundle) Encode() []byte {
	return append([]byte{EnvelopeBundle}, b.buf...)
}

func appendSized(dst, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}
