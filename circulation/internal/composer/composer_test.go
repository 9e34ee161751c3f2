package composer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

func TestComposers_coverEveryEmailType(t *testing.T) {
	require.Len(t, composers, len(model.EmailTypes))
	for _, et := range model.EmailTypes {
		_, ok := composers[et]
		require.True(t, ok, "no composer for %s", et)
	}
}

func TestCompose(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		emailType model.EmailType
		facts     model.Facts
		subject   string
		text      string
	}{
		{
			name:      "overdue with fine",
			emailType: model.EmailOverdueReminder,
			facts: model.Facts{
				PatronName: "Ada Lovelace", ItemTitle: "Dune", ItemType: "book",
				BranchName: "Central", DueDate: due, DaysOverdue: 4, FineCents: 100,
			},
			subject: "Overdue: Dune",
			text: "Dear Ada Lovelace,\n\n" +
				"Our records show that Dune (book) was due on Mar 1, 2024 and is now 4 days overdue.\n" +
				"Estimated fine so far: $1.00.\n" +
				"Please return it at Central as soon as possible.\n\n" +
				"Library Circulation Desk",
		},
		{
			name:      "overdue one day no fine",
			emailType: model.EmailOverdueReminder,
			facts:     model.Facts{ItemTitle: "Dune", DueDate: due, DaysOverdue: 1},
			subject:   "Overdue: Dune",
			text: "Hello,\n\n" +
				"Our records show that Dune was due on Mar 1, 2024 and is now 1 day overdue.\n" +
				"Please return it as soon as possible.\n\n" +
				"Library Circulation Desk",
		},
		{
			name:      "reservation ready",
			emailType: model.EmailReservationReady,
			facts:     model.Facts{PatronName: "Grace", ItemTitle: "SICP", BranchName: "East", ExpiryDate: expiry},
			subject:   "Your reservation is ready: SICP",
			text: "Dear Grace,\n\n" +
				"SICP is now available for pickup at East.\n" +
				"We will hold it for you until Mar 9, 2024.\n\n" +
				"Library Circulation Desk",
		},
		{
			name:      "due soon",
			emailType: model.EmailDueDateReminder,
			facts:     model.Facts{PatronName: "Linus", ItemTitle: "Kernel", ItemType: "dvd", DueDate: due},
			subject:   "Reminder: Kernel is due Mar 1, 2024",
			text: "Dear Linus,\n\n" +
				"Kernel (dvd) is due back on Mar 1, 2024.\n" +
				"You can renew it or return it to any branch before then.\n\n" +
				"Library Circulation Desk",
		},
		{
			name:      "fine notice",
			emailType: model.EmailFineNotice,
			facts:     model.Facts{PatronName: "Ken", FineCents: 1250},
			subject:   "Fine notice: $12.50",
			text: "Dear Ken,\n\n" +
				"A fine of $12.50 is recorded on your account.\n" +
				"You can pay it at any branch desk.\n\n" +
				"Library Circulation Desk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Compose(tt.emailType, tt.facts)
			require.NoError(t, err)
			require.Equal(t, tt.subject, msg.Subject)
			require.Equal(t, tt.text, msg.BodyText)
			require.True(t, strings.HasPrefix(msg.BodyHTML, "<!doctype html><html><head><title>"))
		})
	}
}

func TestCompose_escapesHTML(t *testing.T) {
	msg, err := Compose(model.EmailReservationCancelled, model.Facts{
		PatronName: "Bobby <script>",
		ItemTitle:  "Tom & Jerry",
	})
	require.NoError(t, err)
	require.Equal(t, "Reservation cancelled: Tom & Jerry", msg.Subject)
	require.Contains(t, msg.BodyHTML, "<p>Dear Bobby &lt;script&gt;,</p>")
	require.Contains(t, msg.BodyHTML, "<p>Your reservation for Tom &amp; Jerry has been cancelled.</p>")
	require.NotContains(t, msg.BodyHTML, "<script>")
}

func TestPage(t *testing.T) {
	html, err := render(context.Background(), page("Fine notice: $1.50", "Hello,", []string{"a < b", "c"}))
	require.NoError(t, err)
	require.Equal(t, "<!doctype html><html><head><title>Fine notice: $1.50</title></head><body>"+
		"<p>Hello,</p><p>a &lt; b</p><p>c</p><p>Library Circulation Desk</p></body></html>", html)
}

func TestCompose_unknownType(t *testing.T) {
	_, err := Compose("newsletter", model.Facts{})
	require.ErrorIs(t, err, errs.ErrInvalidEmailType)
}
