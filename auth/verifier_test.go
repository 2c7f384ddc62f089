package auth_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/go-smartaccount/auth"
	"github.com/spacemeshos/go-smartaccount/auth/mocks"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/log/logtest"
	"github.com/spacemeshos/go-smartaccount/policy"
)

var (
	testDomain = auth.Domain{ChainID: 1, Account: types.Address{0xac}}
	testDigest = hash.Sum([]byte("digest"))
	genesis    = time.Unix(1_700_000_000, 0)
)

type signer struct {
	priv *ecdsa.PrivateKey
	key  keyset.Key
}

func newSigner(tb testing.TB, weight keyset.RoleWeight) signer {
	tb.Helper()
	priv, err := crypto.GenerateKey()
	require.NoError(tb, err)
	return signer{priv: priv, key: keyset.NewNative(crypto.PubkeyToAddress(priv.PublicKey), weight)}
}

func (s signer) sign(tb testing.TB, digest types.Hash32) []byte {
	tb.Helper()
	sig, err := auth.Sign(digest, s.priv)
	require.NoError(tb, err)
	return sig
}

func keysOf(signers []signer) []keyset.Key {
	keys := make([]keyset.Key, 0, len(signers))
	for _, s := range signers {
		keys = append(keys, s.key)
	}
	return keys
}

// bundle signs with the signers at the given indexes and presents the rest as keys.
func bundle(tb testing.TB, digest types.Hash32, signers []signer, signing ...int) *auth.Bundle {
	tb.Helper()
	b := &auth.Bundle{}
	for i, s := range signers {
		signed := false
		for _, j := range signing {
			signed = signed || i == j
		}
		if signed {
			b.AddNative(s.key, s.sign(tb, digest))
		} else {
			b.AddKey(s.key)
		}
	}
	return b
}

func newVerifier(tb testing.TB, opts ...auth.Opt) *auth.Verifier {
	opts = append([]auth.Opt{auth.WithLogger(logtest.New(tb))}, opts...)
	return auth.NewVerifier(opts...)
}

func TestOwnerWithUnsignedKeys(t *testing.T) {
	signers := []signer{newSigner(t, keyset.RoleWeight{Owner: 100})}
	for range 9 {
		signers = append(signers, newSigner(t, keyset.RoleWeight{}))
	}
	stored := keyset.Fold(keysOf(signers))

	v := newVerifier(t)
	proof := bundle(t, testDigest, signers, 0).Encode()
	weight, err := v.Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.NoError(t, err)
	require.Equal(t, keyset.RoleWeight{Owner: 100}, weight)

	_, err = v.Authorize(context.Background(), testDomain, testDigest, proof, stored,
		policy.Requirement{Role: policy.Owner, Threshold: 100})
	require.NoError(t, err)

	_, err = v.Authorize(context.Background(), testDomain, testDigest, proof, stored,
		policy.Requirement{Role: policy.Guardian, Threshold: 100})
	require.ErrorIs(t, err, auth.ErrInsufficientWeight)
}

func TestKeysetMismatch(t *testing.T) {
	signers := []signer{
		newSigner(t, keyset.RoleWeight{Owner: 100}),
		newSigner(t, keyset.RoleWeight{Guardian: 100}),
	}
	stored := keyset.Fold(keysOf(signers))
	v := newVerifier(t)

	// missing key
	_, err := v.Verify(context.Background(), testDomain, testDigest, bundle(t, testDigest, signers[:1], 0).Encode(), stored)
	require.ErrorIs(t, err, keyset.ErrKeysetMismatch)

	// reordered keys
	reordered := []signer{signers[1], signers[0]}
	_, err = v.Verify(context.Background(), testDomain, testDigest, bundle(t, testDigest, reordered, 1).Encode(), stored)
	require.ErrorIs(t, err, keyset.ErrKeysetMismatch)

	// inflated weight
	inflated := []signer{signers[0], signers[1]}
	inflated[1].key.Weight.Owner = 100
	_, err = v.Verify(context.Background(), testDomain, testDigest, bundle(t, testDigest, inflated, 1).Encode(), stored)
	require.ErrorIs(t, err, keyset.ErrKeysetMismatch)
}

func TestThresholdMonotonicity(t *testing.T) {
	var signers []signer
	for range 4 {
		signers = append(signers, newSigner(t, keyset.RoleWeight{Guardian: 30}))
	}
	stored := keyset.Fold(keysOf(signers))
	v := newVerifier(t)
	req := policy.Requirement{Role: policy.Guardian, Threshold: 60}

	var prev uint32
	subsets := [][]int{{}, {0}, {0, 2}, {0, 2, 3}, {0, 1, 2, 3}}
	for _, subset := range subsets {
		proof := bundle(t, testDigest, signers, subset...).Encode()
		weight, err := v.Verify(context.Background(), testDomain, testDigest, proof, stored)
		require.NoError(t, err)
		require.GreaterOrEqual(t, weight.Guardian, prev)
		prev = weight.Guardian

		_, err = v.Authorize(context.Background(), testDomain, testDigest, proof, stored, req)
		if len(subset) >= 2 {
			require.NoError(t, err, "subset %v", subset)
		} else {
			require.ErrorIs(t, err, auth.ErrInsufficientWeight, "subset %v", subset)
		}
	}
}

func TestNativeSignatureEncoding(t *testing.T) {
	s := newSigner(t, keyset.RoleWeight{Owner: 100})
	sig := s.sign(t, testDigest)

	signer, err := auth.Recover(testDigest, sig)
	require.NoError(t, err)
	require.Equal(t, s.key.Address, signer)

	_, err = auth.Recover(testDigest, sig[:64])
	require.ErrorIs(t, err, auth.ErrInvalidSignatureLength)

	badV := append([]byte(nil), sig...)
	badV[64] = 1
	_, err = auth.Recover(testDigest, badV)
	require.ErrorIs(t, err, auth.ErrInvalidVValue)

	// malleable twin: s' = n - s
	highS := append([]byte(nil), sig...)
	n := crypto.S256().Params().N
	s2 := new(big.Int).Sub(n, new(big.Int).SetBytes(sig[32:64]))
	s2.FillBytes(highS[32:64])
	_, err = auth.Recover(testDigest, highS)
	require.ErrorIs(t, err, auth.ErrInvalidSValue)

	other := newSigner(t, keyset.RoleWeight{Owner: 100})
	stored := keyset.Fold([]keyset.Key{s.key})
	proof := (&auth.Bundle{}).AddNative(s.key, other.sign(t, testDigest)).Encode()
	_, err = newVerifier(t).Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.ErrorIs(t, err, auth.ErrSignerMismatch)

	short := (&auth.Bundle{}).AddNative(s.key, sig[:10]).Encode()
	_, err = newVerifier(t).Verify(context.Background(), testDomain, testDigest, short, stored)
	require.ErrorIs(t, err, auth.ErrInvalidSignatureLength)
}

func TestMalformedProofs(t *testing.T) {
	v := newVerifier(t)
	for _, tc := range []struct {
		desc  string
		proof []byte
		err   error
	}{
		{"empty", nil, auth.ErrMalformedProof},
		{"unknown envelope", []byte{7}, auth.ErrUnsupportedCredentialType},
		{"truncated entry", []byte{auth.EnvelopeBundle, 0, byte(keyset.KindNative), 1, 2}, auth.ErrMalformedProof},
		{"unknown entry flag", []byte{auth.EnvelopeBundle, 3, 0}, auth.ErrMalformedProof},
		{"unknown kind", []byte{auth.EnvelopeBundle, 0, 9}, auth.ErrUnsupportedCredentialType},
		{"truncated session", []byte{auth.EnvelopeSession, 0, 0}, auth.ErrMalformedProof},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := v.Verify(context.Background(), testDomain, testDigest, tc.proof, types.Hash32{})
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestContractSigner(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockContractCaller(ctrl)
	contract := keyset.NewContract(types.Address{0xcc}, keyset.RoleWeight{Owner: 100})
	stored := keyset.Fold([]keyset.Key{contract})
	sig := []byte("contract specific proof")
	calldata, err := auth.EncodeIsValidSignature(testDigest, sig)
	require.NoError(t, err)

	v := newVerifier(t, auth.WithContractCaller(caller))
	proof := (&auth.Bundle{}).AddContract(contract, sig).Encode()

	magic, err := auth.EncodeMagicValue(auth.MagicValue)
	require.NoError(t, err)
	caller.EXPECT().StaticCall(gomock.Any(), contract.Address, calldata).Return(magic, nil)
	weight, err := v.Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.NoError(t, err)
	require.Equal(t, uint32(100), weight.Owner)

	invalid, err := auth.EncodeMagicValue([4]byte{0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	caller.EXPECT().StaticCall(gomock.Any(), contract.Address, calldata).Return(invalid, nil)
	_, err = v.Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)

	caller.EXPECT().StaticCall(gomock.Any(), contract.Address, calldata).Return(nil, errors.New("reverted"))
	_, err = v.Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)

	_, err = newVerifier(t).Verify(context.Background(), testDomain, testDigest, proof, stored)
	require.ErrorIs(t, err, auth.ErrCredentialVerifierNotLoaded)
}

func emailProof(digest types.Hash32, from string) *auth.EmailProof {
	header := "from:" + from + "\r\nsubject:" + auth.DigestSubject(digest) + "\r\n"
	fromStart := uint32(len("from:"))
	subjectStart := fromStart + uint32(len(from)) + uint32(len("\r\nsubject:"))
	return &auth.EmailProof{
		Domain:       "example.com",
		Selector:     "s1",
		Pepper:       types.Hash32{0x5e},
		FromStart:    fromStart,
		FromEnd:      fromStart + uint32(len(from)),
		SubjectStart: subjectStart,
		SubjectEnd:   subjectStart + uint32(len(auth.DigestSubject(digest))),
		Header:       []byte(header),
		Signature:    []byte("dkim signature"),
	}
}

func TestEmailCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockKeyRegistry(ctrl)
	emails := mocks.NewMockEmailVerifier(ctrl)
	clock := clockwork.NewFakeClockAt(genesis)
	v := newVerifier(t,
		auth.WithKeyRegistry(registry),
		auth.WithEmailVerifier(emails),
		auth.WithClock(clock),
	)

	weight := keyset.RoleWeight{Guardian: 50}
	key := keyset.NewEmail("alice@example.com", types.Hash32{0x5e}, weight)
	stored := keyset.Fold([]keyset.Key{key})
	dkim := auth.KeyMaterial{PublicKey: []byte("pk"), Expiry: genesis.Add(time.Hour)}

	t.Run("valid", func(t *testing.T) {
		proof := emailProof(testDigest, "Alice@Example.com")
		registry.EXPECT().DKIMKey(gomock.Any(), "example.com", "s1").Return(dkim, nil)
		emails.EXPECT().VerifyDKIM(dkim.PublicKey, proof.Header, proof.Signature).Return(nil)
		got, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), stored)
		require.NoError(t, err)
		require.Equal(t, weight, got)
	})
	t.Run("foreign domain", func(t *testing.T) {
		proof := emailProof(testDigest, "alice@evil.com")
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), keyset.Fold([]keyset.Key{
				keyset.NewEmail("alice@evil.com", proof.Pepper, weight),
			}))
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
	t.Run("other digest", func(t *testing.T) {
		proof := emailProof(hash.Sum([]byte("other")), "alice@example.com")
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
	t.Run("not registered", func(t *testing.T) {
		proof := emailProof(testDigest, "alice@example.com")
		registry.EXPECT().DKIMKey(gomock.Any(), "example.com", "s1").Return(auth.KeyMaterial{}, auth.ErrKeyNotRegistered)
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrKeyNotRegistered)
	})
	t.Run("expired key", func(t *testing.T) {
		proof := emailProof(testDigest, "alice@example.com")
		registry.EXPECT().DKIMKey(gomock.Any(), "example.com", "s1").
			Return(auth.KeyMaterial{PublicKey: []byte("pk"), Expiry: genesis}, nil)
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrKeyExpired)
	})
	t.Run("bad offsets", func(t *testing.T) {
		proof := emailProof(testDigest, "alice@example.com")
		proof.SubjectEnd = uint32(len(proof.Header)) + 1
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddEmail(weight, proof).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrMalformedProof)
	})
}

func signToken(tb testing.TB, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	tb.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	raw, err := token.SignedString(key)
	require.NoError(tb, err)
	return raw
}

func TestIdentityTokenCredential(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	registry := mocks.NewMockKeyRegistry(ctrl)
	tokens := mocks.NewMockTokenVerifier(ctrl)
	clock := clockwork.NewFakeClockAt(genesis)
	v := newVerifier(t,
		auth.WithKeyRegistry(registry),
		auth.WithTokenVerifier(tokens),
		auth.WithClock(clock),
	)

	const issuer = "https://accounts.example.com"
	weight := keyset.RoleWeight{Owner: 100}
	key := keyset.NewIdentityToken(issuer, "user-1", weight)
	stored := keyset.Fold([]keyset.Key{key})
	claims := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss":   issuer,
			"sub":   "user-1",
			"aud":   "wallet",
			"nonce": auth.DigestSubject(testDigest),
			"exp":   genesis.Add(time.Hour).Unix(),
		}
	}
	material := auth.KeyMaterial{PublicKey: []byte("jwk")}

	t.Run("valid", func(t *testing.T) {
		raw := signToken(t, rsaKey, "k1", claims())
		parsed, err := auth.ParseIdentityToken(raw)
		require.NoError(t, err)
		registry.EXPECT().IsAudienceAllowed(gomock.Any(), issuer, "wallet").Return(true, nil)
		registry.EXPECT().OpenIDKey(gomock.Any(), issuer, "k1").Return(material, nil)
		tokens.EXPECT().VerifyToken(material.PublicKey, parsed.SigningInput, parsed.Signature).Return(nil)
		got, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, raw).Encode(), stored)
		require.NoError(t, err)
		require.Equal(t, weight, got)
	})
	t.Run("nonce mismatch", func(t *testing.T) {
		c := claims()
		c["nonce"] = "0x00"
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, signToken(t, rsaKey, "k1", c)).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
	t.Run("expired", func(t *testing.T) {
		c := claims()
		c["exp"] = genesis.Unix()
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, signToken(t, rsaKey, "k1", c)).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
	t.Run("audience not allowed", func(t *testing.T) {
		registry.EXPECT().IsAudienceAllowed(gomock.Any(), issuer, "wallet").Return(false, nil)
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, signToken(t, rsaKey, "k1", claims())).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
	t.Run("other subject", func(t *testing.T) {
		c := claims()
		c["sub"] = "user-2"
		registry.EXPECT().IsAudienceAllowed(gomock.Any(), issuer, "wallet").Return(true, nil)
		registry.EXPECT().OpenIDKey(gomock.Any(), issuer, "k1").Return(material, nil)
		tokens.EXPECT().VerifyToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, signToken(t, rsaKey, "k1", c)).Encode(), stored)
		require.ErrorIs(t, err, keyset.ErrKeysetMismatch)
	})
	t.Run("missing kid", func(t *testing.T) {
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			(&auth.Bundle{}).AddIdentityToken(weight, signToken(t, rsaKey, "", claims())).Encode(), stored)
		require.ErrorIs(t, err, auth.ErrMalformedProof)
	})
}

func sessionProof(tb testing.TB, owner, session signer, signers []signer, expiry uint64, weightCap uint32) []byte {
	tb.Helper()
	permitDigest := auth.PermitDigest(testDomain, session.key.Address, expiry, weightCap)
	permit := &auth.Bundle{}
	for _, s := range signers {
		if s.key == owner.key {
			permit.AddNative(s.key, s.sign(tb, permitDigest))
		} else {
			permit.AddKey(s.key)
		}
	}
	return (&auth.SessionProof{
		Expiry:    expiry,
		Session:   session.key.Address,
		WeightCap: weightCap,
		Permit:    permit.Entries(),
		Signature: session.sign(tb, testDigest),
	}).Encode()
}

func TestSessionKey(t *testing.T) {
	owner := newSigner(t, keyset.RoleWeight{Owner: 100, AssetsOp: 100})
	guardian := newSigner(t, keyset.RoleWeight{Guardian: 100})
	signers := []signer{owner, guardian}
	stored := keyset.Fold(keysOf(signers))
	session := newSigner(t, keyset.RoleWeight{})
	clock := clockwork.NewFakeClockAt(genesis)
	v := newVerifier(t, auth.WithClock(clock), auth.WithSessionWeightCeiling(60))
	now := uint64(genesis.Unix())

	t.Run("valid", func(t *testing.T) {
		weight, err := v.Verify(context.Background(), testDomain, testDigest,
			sessionProof(t, owner, session, signers, now+60, 100), stored)
		require.NoError(t, err)
		require.Equal(t, keyset.RoleWeight{AssetsOp: 60}, weight, "capped by ceiling, assets-op only")
	})
	t.Run("cap below ceiling", func(t *testing.T) {
		weight, err := v.Verify(context.Background(), testDomain, testDigest,
			sessionProof(t, owner, session, signers, now+60, 20), stored)
		require.NoError(t, err)
		require.Equal(t, keyset.RoleWeight{AssetsOp: 20}, weight)
	})
	t.Run("expired", func(t *testing.T) {
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			sessionProof(t, owner, session, signers, now-1, 100), stored)
		require.ErrorIs(t, err, auth.ErrSessionKeyExpired)
	})
	t.Run("expires at now", func(t *testing.T) {
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			sessionProof(t, owner, session, signers, now, 100), stored)
		require.ErrorIs(t, err, auth.ErrSessionKeyExpired)
	})
	t.Run("permit without owner", func(t *testing.T) {
		_, err := v.Verify(context.Background(), testDomain, testDigest,
			sessionProof(t, guardian, session, signers, now+60, 100), stored)
		require.ErrorIs(t, err, auth.ErrInsufficientWeight)
	})
	t.Run("other session signer", func(t *testing.T) {
		permitDigest := auth.PermitDigest(testDomain, session.key.Address, now+60, 100)
		other := newSigner(t, keyset.RoleWeight{})
		proof := (&auth.SessionProof{
			Expiry:    now + 60,
			Session:   session.key.Address,
			WeightCap: 100,
			Permit:    bundle(t, permitDigest, signers, 0).Entries(),
			Signature: other.sign(t, testDigest),
		}).Encode()
		_, err := v.Verify(context.Background(), testDomain, testDigest, proof, stored)
		require.ErrorIs(t, err, auth.ErrSignerMismatch)
	})
	t.Run("other account", func(t *testing.T) {
		dom := auth.Domain{ChainID: testDomain.ChainID, Account: types.Address{0xff}}
		_, err := v.Verify(context.Background(), dom, testDigest,
			sessionProof(t, owner, session, signers, now+60, 100), stored)
		require.ErrorIs(t, err, auth.ErrSignerMismatch)
	})
}
