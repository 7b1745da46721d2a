package utils

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendCourseCompletionEmail sends the one-time congratulation mail when a
// learner first reaches 100% progress
func SendCourseCompletionEmail(toEmail, name, courseTitle string) error {
	from := mail.NewEmail("Course Platform", config.AppConfig.EmailSender)
	to := mail.NewEmail(name, toEmail)
	subject := fmt.Sprintf("Congratulations! You completed %s", courseTitle)

	plain := fmt.Sprintf("Hi %s,\n\nYou have completed every lecture of %s. Well done!\n", name, courseTitle)
	html := fmt.Sprintf(`
	<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: auto;">
		<h2>Congratulations, %s!</h2>
		<p>You have completed every lecture of <b>%s</b>.</p>
		<p>Your certificate of completion is now available from your dashboard.</p>
	</div>`, name, courseTitle)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)

	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending completion email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] Completion email to %s rejected with status %d", toEmail, resp.StatusCode)
		return fmt.Errorf("sendgrid rejected email, status %d", resp.StatusCode)
	}
	return nil
}

// NotifyCourseCompleted looks up the learner and course, then sends the
// completion mail in the background. Failures are logged and never block
// the completing request.
func NotifyCourseCompleted(userID, courseID uint) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("[EMAIL] User %d not found for completion email: %v", userID, err)
		return
	}

	var course models.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		log.Printf("[EMAIL] Course %d not found for completion email: %v", courseID, err)
		return
	}

	go SendCourseCompletionEmail(user.Email, user.Name, course.Title)
}
