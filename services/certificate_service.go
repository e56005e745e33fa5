package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/avelini/course_academy/configs"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"github.com/avelini/course_academy/storage"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckAndGenerateCertificate issues a completion certificate once the user
// has finished every episode of the course. Meant to run in a goroutine
// after progress updates; all failures are logged only.
func CheckAndGenerateCertificate(db *gorm.DB, user models.User) {
	var totalEpisodes int64
	if err := db.Model(&models.Episode{}).Count(&totalEpisodes).Error; err != nil || totalEpisodes == 0 {
		return
	}

	var completedCount int64
	db.Model(&models.EpisodeProgress{}).Where("user_id = ?", user.ID).Count(&completedCount)
	if completedCount < totalEpisodes {
		return
	}

	var existing models.Certificate
	if err := db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return
	}

	if storage.Store == nil {
		log.Println("⚠️ Object storage not configured, skipping certificate generation.")
		return
	}

	htmlData, err := renderCertificateHTML(user.FullName)
	if err != nil {
		log.Printf("🔥 Failed to render certificate HTML: %v", err)
		return
	}

	pdfBytes, err := printPDF(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate PDF: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := fmt.Sprintf("certificates/%s_%s.pdf", user.ID, uuid.New())
	certURL, err := storage.Store.UploadObject(ctx, key, "application/pdf", pdfBytes)
	if err != nil {
		log.Printf("🔥 Failed to upload certificate for user %s: %v", user.ID, err)
		return
	}

	certificate := models.Certificate{
		UserID:         user.ID,
		CertificateURL: certURL,
		IssuedAt:       time.Now(),
	}
	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for user %s: %v", user.ID, err)
		return
	}

	log.Printf("✅ Generated completion certificate for user %s.", user.ID)
	go notifications.SendEmail(
		user.FullName,
		user.Email,
		"Your Course Completion Certificate",
		fmt.Sprintf("<h1>Congratulations, %s!</h1><p>You finished the course. Your certificate is ready:</p><p><a href='%s'>Download Certificate</a></p>", user.FullName, certURL),
	)
}

func renderCertificateHTML(studentName string) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		CourseName     string
		CompletionDate string
	}{
		StudentName:    studentName,
		CourseName:     config.ConfigOr("COURSE_NAME", "Course Academy"),
		CompletionDate: time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
