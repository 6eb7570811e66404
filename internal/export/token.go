package export

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Token signs the public CSV link of one competition.
func Token(secret string, competitionID int) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("export:" + strconv.Itoa(competitionID)))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyToken(secret string, competitionID int, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(Token(secret, competitionID)), []byte(token))
}
