package mailer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func encode(t *testing.T, typ, to string) []byte {
	t.Helper()

	body, err := json.Marshal(domain.MailMessage{
		Type: typ,
		To:   to,
		Data: domain.ShiftMailData{
			FullName:  "Li Lei",
			ShiftDate: "2025-08-11",
			StartTime: "09:00",
			EndTime:   "17:00",
		},
	})
	require.NoError(t, err)
	return body
}

func TestRenderer_Build(t *testing.T) {
	r, err := NewRenderer("noreply@example.com")
	require.NoError(t, err)

	for typ, subject := range subjects {
		t.Run(typ, func(t *testing.T) {
			msg, err := r.Build(encode(t, typ, "lilei@example.com"))
			require.NoError(t, err)

			to := msg.GetTo()
			require.Len(t, to, 1)
			assert.Equal(t, "lilei@example.com", to[0].Address)
			assert.Len(t, msg.GetGenHeader(mail.HeaderSubject), 1)

			var buf bytes.Buffer
			_, err = msg.WriteTo(&buf)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "2025-08-11")
			assert.NotEmpty(t, subject)
		})
	}
}

func TestRenderer_BuildErrors(t *testing.T) {
	r, err := NewRenderer("noreply@example.com")
	require.NoError(t, err)

	_, err = r.Build(encode(t, "reset_password", "lilei@example.com"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = r.Build(encode(t, domain.MailShiftAssigned, "not an address"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedType)

	_, err = r.Build([]byte("{"))
	assert.Error(t, err)
}
