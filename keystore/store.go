// Package keystore provides local-first storage for ledger signing identities.
//
// It stores hex-encoded secp256k1 private keys on the filesystem (0600 files),
// so PRIVATE_KEY can come from a named key instead of living in the
// environment of every shell that anchors datasets.
package keystore

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Store is a directory of named signing keys.
type Store struct {
	Directory string
}

// ErrKeyExists is returned when an Init or Import would overwrite a key.
var ErrKeyExists = errors.New("keystore: key already exists")

const keyFileExt = ".key"

func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tabanchor", "keys"), nil
}

// Open returns a Store rooted at directory, or at the default directory when
// directory is empty.
func Open(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Directory: directory}, nil
}

// CheckName restricts key names to filesystem-safe identifiers.
func CheckName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Directory, name+keyFileExt)
}

// Init generates a fresh secp256k1 key under name.
//
// Fails with ErrKeyExists unless force is set.
func (s *Store) Init(name string, force bool) error {
	if err := CheckName(name); err != nil {
		return err
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	return s.write(name, key, force)
}

// ImportHex stores an existing hex-encoded private key under name.
func (s *Store) ImportHex(name, keyHex string, force bool) error {
	if err := CheckName(name); err != nil {
		return err
	}
	key, err := ParseKeyHex(keyHex)
	if err != nil {
		return err
	}
	return s.write(name, key, force)
}

func (s *Store) write(name string, key *ecdsa.PrivateKey, force bool) error {
	path := s.path(name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return ErrKeyExists
		}
	}
	if err := os.MkdirAll(s.Directory, 0o700); err != nil {
		return err
	}
	encoded := hex.EncodeToString(crypto.FromECDSA(key))
	return os.WriteFile(path, []byte(encoded+"\n"), 0o600)
}

// Load reads the private key stored under name.
func (s *Store) Load(name string) (*ecdsa.PrivateKey, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, err
	}
	return ParseKeyHex(string(b))
}

// LoadHex reads the key under name in the hex form the ledger config expects.
func (s *Store) LoadHex(name string) (string, error) {
	key, err := s.Load(name)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(crypto.FromECDSA(key)), nil
}

// Address returns the hex wallet address derived from the key under name.
func (s *Store) Address(name string) (string, error) {
	key, err := s.Load(name)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// List returns stored key names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Directory)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), keyFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), keyFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// ParseKeyHex decodes a hex-encoded secp256k1 private key (0x prefix and
// surrounding whitespace tolerated).
func ParseKeyHex(keyHex string) (*ecdsa.PrivateKey, error) {
	keyHex = strings.TrimSpace(keyHex)
	keyHex = strings.TrimPrefix(keyHex, "0x")
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("malformed private key: %w", err)
	}
	return key, nil
}
