package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	errorc "wopanel/pkg/core/err"
)

// Cipher 对敏感配置做对称加密，密钥由面板密钥派生
type Cipher struct {
	key []byte
	err *errorc.ErrorBuilder
}

// NewCipher secret 为任意长度的面板密钥，内部取 SHA-256 作为 AES-256 密钥
func NewCipher(secret string) *Cipher {
	sum := sha256.Sum256([]byte(secret))
	return &Cipher{
		key: sum[:],
		err: errorc.NewErrorBuilder("SettingCipher"),
	}
}

// Encrypt AES-GCM 加密并 base64 编码，nonce 拼在密文前
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", c.err.New("创建加密器失败", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", c.err.New("创建加密器失败", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", c.err.New("生成随机数失败", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密 Encrypt 的输出
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", c.err.New("密文格式错误", err).ValidWithCtx()
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", c.err.New("创建解密器失败", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", c.err.New("创建解密器失败", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", c.err.New("密文长度不足", nil).ValidWithCtx()
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", c.err.New("解密失败，密钥不匹配或密文被篡改", err).ValidWithCtx()
	}
	return string(plain), nil
}
