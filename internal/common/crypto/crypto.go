// Package crypto 提供密码哈希与敏感信息脱敏工具
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 对密码进行哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword 验证密码
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomString 生成 URL 安全的随机字符串
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// MaskPhone 手机号脱敏，保留前 3 位和后 4 位
// 支持带连字符的格式（010-1234-5678）
func MaskPhone(phone string) string {
	digits := strings.ReplaceAll(phone, "-", "")
	if len(digits) < 9 {
		return phone
	}
	return digits[:3] + "****" + digits[len(digits)-4:]
}

// MaskEmail 邮箱脱敏，保留前 2 位本地部分
func MaskEmail(email string) string {
	for i, c := range email {
		if c == '@' {
			if i <= 2 {
				return email
			}
			return email[:2] + "***" + email[i:]
		}
	}
	return email
}

// MaskCardNo 卡号脱敏，保留前 4 位和后 4 位
func MaskCardNo(cardNo string) string {
	if len(cardNo) < 8 {
		return cardNo
	}
	return cardNo[:4] + " **** **** " + cardNo[len(cardNo)-4:]
}
