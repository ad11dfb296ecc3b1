package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// per-user token store (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but keeps hub tokens out of the config file.

const fileName = "tokens.json"

// ErrNoToken is returned when no token is stored for a server.
var ErrNoToken = errors.New("token not found")

type tokenFile struct {
	Tokens map[string]string `json:"tokens"` // server -> base64(ciphertext)
}

// Store keeps tokens in Dir.
type Store struct {
	Dir string
}

// Default returns a store under the user config directory.
func Default() (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: filepath.Join(dir, "voxelcmd")}, nil
}

func (s Store) StoreToken(server, token string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	path, err := s.filePath()
	if err != nil {
		return err
	}
	tf, _ := load(path)
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	tf.Tokens[server] = base64.StdEncoding.EncodeToString(ct)
	return save(path, tf)
}

func (s Store) FetchToken(server string) (string, error) {
	if server = norm(server); server == "" {
		return "", fmt.Errorf("server required")
	}
	path, err := s.filePath()
	if err != nil {
		return "", err
	}
	tf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := tf.Tokens[server]
	if !ok {
		return "", ErrNoToken
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (s Store) DeleteToken(server string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	path, err := s.filePath()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	delete(tf.Tokens, server)
	return save(path, tf)
}

func (s Store) filePath() (string, error) {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(s.Dir, fileName), nil
}

func load(path string) (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokenFile{}, nil
		}
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, err
	}
	return tf, nil
}

func save(path string, tf tokenFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// norm lowercases and drops a trailing slash so ws://host/ws and WS://HOST/ws/ share a token.
func norm(s string) string {
	return strings.TrimRight(strings.TrimSpace(strings.ToLower(s)), "/")
}

func masterKey() []byte {
	base := fmt.Sprintf("voxelcmd-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
