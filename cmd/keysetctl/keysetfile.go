package main

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
)

// keyEntry is one [[keys]] table of a keyset file.
type keyEntry struct {
	Kind    string        `mapstructure:"kind"`
	Address types.Address `mapstructure:"address"`
	Email   string        `mapstructure:"email"`
	Pepper  types.Hash32  `mapstructure:"pepper"`
	Issuer  string        `mapstructure:"issuer"`
	Subject string        `mapstructure:"subject"`

	Owner        uint32 `mapstructure:"owner"`
	AssetsOp     uint32 `mapstructure:"assets-op"`
	Guardian     uint32 `mapstructure:"guardian"`
	Synchronizer uint32 `mapstructure:"synchronizer"`
}

type keysetFile struct {
	Keys []keyEntry `mapstructure:"keys"`
}

func (e keyEntry) key() (keyset.Key, error) {
	weight := keyset.RoleWeight{
		Owner:        e.Owner,
		AssetsOp:     e.AssetsOp,
		Guardian:     e.Guardian,
		Synchronizer: e.Synchronizer,
	}
	var key keyset.Key
	switch e.Kind {
	case keyset.KindNative.String():
		key = keyset.NewNative(e.Address, weight)
	case keyset.KindContract.String():
		key = keyset.NewContract(e.Address, weight)
	case keyset.KindEmail.String():
		if e.Email == "" {
			return keyset.Key{}, errors.New("email key without email")
		}
		key = keyset.NewEmail(e.Email, e.Pepper, weight)
	case keyset.KindIdentityToken.String():
		if e.Issuer == "" || e.Subject == "" {
			return keyset.Key{}, errors.New("identity-token key without issuer or subject")
		}
		key = keyset.NewIdentityToken(e.Issuer, e.Subject, weight)
	default:
		return keyset.Key{}, fmt.Errorf("unknown key kind %q", e.Kind)
	}
	return key, key.Validate()
}

// loadKeyset reads the ordered keys of a keyset file. The format is inferred
// from the extension.
func loadKeyset(fs afero.Fs, path string) ([]keyset.Key, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read keyset %s: %w", path, err)
	}
	var file keysetFile
	err := v.Unmarshal(&file,
		viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()),
		func(cfg *mapstructure.DecoderConfig) { cfg.ErrorUnused = true },
	)
	if err != nil {
		return nil, fmt.Errorf("decode keyset %s: %w", path, err)
	}
	if len(file.Keys) == 0 {
		return nil, fmt.Errorf("keyset %s has no keys", path)
	}
	keys := make([]keyset.Key, 0, len(file.Keys))
	for i, entry := range file.Keys {
		key, err := entry.key()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
