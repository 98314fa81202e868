package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// gravatarURL derives the avatar from the account email: size 200,
// pg rating, mystery-man fallback.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
