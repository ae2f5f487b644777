package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
)

// Column names per channel. Each channel has its own expiry so issuing an
// email code never shifts the phone code's lifetime.
func verificationColumns(channel domain.Channel) (codeCol, expiresCol, verifiedCol string) {
	if channel == domain.ChannelPhone {
		return "phone_verification_code", "phone_verification_expires_at", "phone_verified"
	}
	return "email_verification_code", "email_verification_expires_at", "email_verified"
}

// SaveVerificationCode stores a pending code for the channel, overwriting
// any previous one. A superseded code can no longer verify.
func (s *Storage) SaveVerificationCode(code domain.PendingCode) error {
	codeCol, expiresCol, _ := verificationColumns(code.Channel)
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(fmt.Sprintf(`
			UPDATE users
			SET %s = $1, %s = $2, updated_at = NOW()
			WHERE id = $3`, codeCol, expiresCol),
			code.Code, code.Expires, code.UserId,
		)
		if err != nil {
			return fmt.Errorf("failed to save verification code: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for verification code: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.NotFound("User not found.")
		}
		return nil
	})
}

// ConsumeVerificationCode flips the channel to verified iff the submitted
// code matches the pending one and it has not expired. Match, consume and
// flag-flip happen in a single UPDATE, so a concurrent re-issue or a second
// submission of the same code cannot double-verify.
func (s *Storage) ConsumeVerificationCode(userId domain.UserId, channel domain.Channel, submitted string, now time.Time) error {
	codeCol, expiresCol, verifiedCol := verificationColumns(channel)
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(fmt.Sprintf(`
			UPDATE users
			SET %s = TRUE, %s = NULL, %s = NULL, updated_at = NOW()
			WHERE id = $1 AND %s = $2 AND %s > $3`,
			verifiedCol, codeCol, expiresCol, codeCol, expiresCol),
			userId, submitted, now,
		)
		if err != nil {
			return fmt.Errorf("failed to consume verification code: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for verification: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.InvalidOrExpiredCode()
		}
		return nil
	})
}
