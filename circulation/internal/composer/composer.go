// Package composer turns notification facts into subject and bodies. It is pure: nothing
// here touches storage or the clock.
package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

type Message struct {
	Subject  string
	BodyText string
	BodyHTML string
}

// draft is what a compose func decides; rendering to text and HTML is shared.
type draft struct {
	subject string
	lines   []string
}

type composeFunc func(f model.Facts) draft

var composers = map[model.EmailType]composeFunc{
	model.EmailOverdueReminder:      overdueReminder,
	model.EmailReservationReady:     reservationReady,
	model.EmailDueDateReminder:      dueDateReminder,
	model.EmailCheckoutReceipt:      checkoutReceipt,
	model.EmailCheckinReceipt:       checkinReceipt,
	model.EmailReservationExpired:   reservationExpired,
	model.EmailReservationCancelled: reservationCancelled,
	model.EmailFineNotice:           fineNotice,
}

const (
	dateLayout = "Jan 2, 2006"
	signature  = "Library Circulation Desk"
)

func Compose(t model.EmailType, f model.Facts) (Message, error) {
	fn, ok := composers[t]
	if !ok {
		return Message{}, errs.ErrInvalidEmailType
	}
	d := fn(f)
	greet := greeting(f.PatronName)

	html, err := render(context.Background(), page(d.subject, greet, d.lines))
	if err != nil {
		return Message{}, err
	}
	return Message{
		Subject:  d.subject,
		BodyText: greet + "\n\n" + strings.Join(d.lines, "\n") + "\n\n" + signature,
		BodyHTML: html,
	}, nil
}

//go:generate go run github.com/a-h/templ/cmd/templ generate

func render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func greeting(name string) string {
	if name == "" {
		return "Hello,"
	}
	return "Dear " + name + ","
}

func overdueReminder(f model.Facts) draft {
	lines := []string{
		fmt.Sprintf("Our records show that %s was due on %s and is now %s overdue.",
			itemLabel(f), date(f.DueDate), plural(f.DaysOverdue, "day")),
	}
	if f.FineCents > 0 {
		lines = append(lines, fmt.Sprintf("Estimated fine so far: %s.", money(f.FineCents)))
	}
	lines = append(lines, "Please return it"+atBranch(f)+" as soon as possible.")
	return draft{subject: "Overdue: " + f.ItemTitle, lines: lines}
}

func reservationReady(f model.Facts) draft {
	lines := []string{fmt.Sprintf("%s is now available for pickup%s.", f.ItemTitle, atBranch(f))}
	if !f.ExpiryDate.IsZero() {
		lines = append(lines, fmt.Sprintf("We will hold it for you until %s.", date(f.ExpiryDate)))
	}
	return draft{subject: "Your reservation is ready: " + f.ItemTitle, lines: lines}
}

func dueDateReminder(f model.Facts) draft {
	return draft{
		subject: fmt.Sprintf("Reminder: %s is due %s", f.ItemTitle, date(f.DueDate)),
		lines: []string{
			fmt.Sprintf("%s is due back on %s.", itemLabel(f), date(f.DueDate)),
			"You can renew it or return it to any branch before then.",
		},
	}
}

func checkoutReceipt(f model.Facts) draft {
	return draft{
		subject: "Checkout receipt: " + f.ItemTitle,
		lines: []string{
			fmt.Sprintf("You checked out %s on %s.", itemLabel(f), date(f.CheckoutDate)),
			fmt.Sprintf("It is due back on %s.", date(f.DueDate)),
		},
	}
}

func checkinReceipt(f model.Facts) draft {
	lines := []string{fmt.Sprintf("We received %s on %s.", itemLabel(f), date(f.ReturnDate))}
	if f.FineCents > 0 {
		lines = append(lines, fmt.Sprintf("A late fee of %s was added to your account.", money(f.FineCents)))
	}
	lines = append(lines, "Thank you!")
	return draft{subject: "Return receipt: " + f.ItemTitle, lines: lines}
}

func reservationExpired(f model.Facts) draft {
	return draft{
		subject: "Reservation expired: " + f.ItemTitle,
		lines: []string{
			fmt.Sprintf("Your hold on %s expired on %s and the item has been released.", f.ItemTitle, date(f.ExpiryDate)),
			"You are welcome to place a new reservation.",
		},
	}
}

func reservationCancelled(f model.Facts) draft {
	return draft{
		subject: "Reservation cancelled: " + f.ItemTitle,
		lines:   []string{fmt.Sprintf("Your reservation for %s has been cancelled.", f.ItemTitle)},
	}
}

func fineNotice(f model.Facts) draft {
	line := fmt.Sprintf("A fine of %s is recorded on your account.", money(f.FineCents))
	if f.ItemTitle != "" {
		line = fmt.Sprintf("A fine of %s is recorded on your account for %s.", money(f.FineCents), f.ItemTitle)
	}
	return draft{
		subject: "Fine notice: " + money(f.FineCents),
		lines:   []string{line, "You can pay it at any branch desk."},
	}
}

func itemLabel(f model.Facts) string {
	if f.ItemType == "" {
		return f.ItemTitle
	}
	return fmt.Sprintf("%s (%s)", f.ItemTitle, f.ItemType)
}

func atBranch(f model.Facts) string {
	if f.BranchName == "" {
		return ""
	}
	return " at " + f.BranchName
}

func date(t time.Time) string {
	return t.Format(dateLayout)
}

func money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
