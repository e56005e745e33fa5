package jobs

import (
	"fmt"
	"log"
	"strings"

	config "github.com/avelini/course_academy/configs"
	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"github.com/avelini/course_academy/utils"
)

// SendPendingPayoutDigest emails the admin a daily summary of payout
// requests waiting for a decision.
func SendPendingPayoutDigest() {
	log.Println("Running job: SendPendingPayoutDigest...")

	var pending []models.Payout
	err := database.DB.Preload("Affiliate").Preload("Affiliate.User").
		Where("status = ?", models.PayoutStatusRequested).
		Order("requested_at asc").
		Find(&pending).Error
	if err != nil {
		log.Printf("Error loading pending payouts for digest: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	var rows strings.Builder
	var total int64
	for _, p := range pending {
		total += p.Amount
		rows.WriteString(fmt.Sprintf(
			"<li>%s — %s, requested %s</li>",
			p.Affiliate.User.Email,
			utils.FormatCents(p.Amount),
			p.RequestedAt.Format("Jan 2 15:04"),
		))
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	if adminEmail == "" {
		return
	}

	notifications.SendEmail(
		"Admin",
		adminEmail,
		fmt.Sprintf("%d payout request(s) awaiting review", len(pending)),
		fmt.Sprintf("<h1>Pending Payouts</h1><p>Total requested: %s</p><ul>%s</ul>", utils.FormatCents(total), rows.String()),
	)
}
