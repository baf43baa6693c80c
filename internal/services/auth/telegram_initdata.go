package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// TelegramUser is the subset of the Mini App init data user payload the
// service cares about.
type TelegramUser struct {
	ID        int64   `json:"id"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// VerifyTelegramInitData checks the init data signature against the bot
// token using the Mini App scheme: the hash field must equal
// HMAC-SHA256(data-check-string, HMAC-SHA256(botToken, "WebAppData")).
// An empty bot token disables verification so local setups can log in
// with plain user_id payloads.
func VerifyTelegramInitData(initData, botToken string) error {
	if strings.TrimSpace(initData) == "" {
		return fmt.Errorf("init data is empty: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(botToken) == "" {
		return nil
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return ErrUnauthorized
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return ErrUnauthorized
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretMAC := hmac.New(sha256.New, []byte("WebAppData"))
	secretMAC.Write([]byte(botToken))

	dataMAC := hmac.New(sha256.New, secretMAC.Sum(nil))
	dataMAC.Write([]byte(checkString))
	wantHash := hex.EncodeToString(dataMAC.Sum(nil))

	if !hmac.Equal([]byte(gotHash), []byte(wantHash)) {
		return ErrUnauthorized
	}

	return nil
}

// ResolveTelegramUser extracts the authenticated user from init data. It
// accepts the full Mini App query form as well as bare user_id payloads
// used by local clients.
func ResolveTelegramUser(initData string) (TelegramUser, error) {
	trimmed := strings.TrimSpace(initData)
	if trimmed == "" {
		return TelegramUser{}, fmt.Errorf("init data is empty: %w", ErrInvalidInput)
	}

	if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil && parsed > 0 {
		return TelegramUser{ID: parsed}, nil
	}

	query, err := url.ParseQuery(trimmed)
	if err != nil || len(query) == 0 {
		return TelegramUser{}, ErrInvalidInput
	}

	if rawUser := query.Get("user"); rawUser != "" {
		var user TelegramUser
		if unmarshalErr := json.Unmarshal([]byte(rawUser), &user); unmarshalErr == nil && user.ID > 0 {
			return user, nil
		}
	}

	for _, key := range []string{"user_id", "id", "tg_user_id"} {
		if value := query.Get(key); value != "" {
			parsed, parseErr := strconv.ParseInt(value, 10, 64)
			if parseErr == nil && parsed > 0 {
				return TelegramUser{ID: parsed}, nil
			}
		}
	}

	return TelegramUser{}, ErrInvalidInput
}
