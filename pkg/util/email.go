package util

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// sendMail Gmail SMTP経由でHTMLメールを送信する
// 開発モード: SMTP設定がなければコンソール出力のみ
func sendMail(toEmail, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}
	fromEmail := os.Getenv("SMTP_EMAIL")
	password := os.Getenv("SMTP_PASSWORD")

	if fromEmail == "" || password == "" {
		log.Printf("[DEV MODE] メール送信 (宛先: %s, 件名: %s)", toEmail, subject)
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		fromEmail, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", fromEmail, password, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, fromEmail, []string{toEmail}, message); err != nil {
		log.Printf("メール送信失敗: %v", err)
		return fmt.Errorf("メールの送信に失敗しました: %v", err)
	}

	log.Printf("メール送信完了: %s", toEmail)
	return nil
}

// SendApprovalEmail 申請承認の通知と編集ポータルの認証情報を送信する
func SendApprovalEmail(toEmail, storeName, portalURL, tempPassword string) error {
	subject := "【まちナビ】店舗編集申請が承認されました"

	credentialBlock := ""
	if tempPassword != "" {
		credentialBlock = fmt.Sprintf(`
		<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 30px;">
			<p style="color: #333; margin: 0 0 10px 0;">ログイン用パスワード:</p>
			<h2 style="color: #333; margin: 0; font-size: 24px; letter-spacing: 2px;">%s</h2>
		</div>`, tempPassword)
	}

	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
		<h1 style="color: #333; margin-bottom: 20px;">申請が承認されました</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			「%s」の編集申請が承認されました。<br>
			以下のリンクから店舗情報の編集ページにアクセスできます。
		</p>
		<div style="text-align: center; margin-bottom: 30px;">
			<a href="%s" style="display: inline-block; background-color: #2E86DE; color: white; padding: 15px 40px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
				編集ページを開く
			</a>
		</div>
		%s
		<p style="color: #999; font-size: 14px;">
			* このリンクは発行から30日間有効です。
		</p>
	</div>
</body>
</html>
`, storeName, portalURL, credentialBlock)

	return sendMail(toEmail, subject, body)
}

// SendRejectionEmail 申請却下の通知を送信する
func SendRejectionEmail(toEmail, storeName, reason string) error {
	subject := "【まちナビ】店舗編集申請の審査結果について"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
		<h1 style="color: #333; margin-bottom: 20px;">審査結果のお知らせ</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			「%s」の編集申請について、誠に申し訳ございませんが<br>
			今回は承認を見送らせていただきました。
		</p>
		<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 30px;">
			<p style="color: #333; margin: 0 0 10px 0; font-weight: bold;">理由:</p>
			<p style="color: #666; margin: 0; line-height: 1.6;">%s</p>
		</div>
		<p style="color: #999; font-size: 14px;">
			* 内容をご確認のうえ、再度お申し込みいただけます。
		</p>
	</div>
</body>
</html>
`, storeName, reason)

	return sendMail(toEmail, subject, body)
}

// SendPortalInviteEmail 編集ポータルの招待リンクを送信する
func SendPortalInviteEmail(toEmail, storeName, portalURL string) error {
	subject := "【まちナビ】店舗編集ページのご案内"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
		<h1 style="color: #333; margin-bottom: 20px;">店舗編集ページのご案内</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			「%s」の店舗情報編集ページを発行しました。<br>
			以下のボタンからアクセスしてください。
		</p>
		<div style="text-align: center; margin-bottom: 30px;">
			<a href="%s" style="display: inline-block; background-color: #2E86DE; color: white; padding: 15px 40px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
				編集ページを開く
			</a>
		</div>
		<p style="color: #999; font-size: 14px;">
			* 心当たりのない場合は、このメールを無視してください。
		</p>
	</div>
</body>
</html>
`, storeName, portalURL)

	return sendMail(toEmail, subject, body)
}

// SendPasswordResetEmail パスワード再設定リンクを送信する
func SendPasswordResetEmail(toEmail, resetToken string) error {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, resetToken)

	if os.Getenv("SMTP_EMAIL") == "" || os.Getenv("SMTP_PASSWORD") == "" {
		log.Printf("[DEV MODE] パスワード再設定トークン: %s (宛先: %s)", resetToken, toEmail)
		log.Printf("[DEV MODE] 再設定リンク: %s", resetLink)
		return nil
	}

	subject := "【まちナビ】パスワード再設定"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
		<h1 style="color: #333; margin-bottom: 20px;">パスワード再設定</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			まちナビ管理アカウントのパスワード再設定のリクエストを受け付けました。<br>
			以下のボタンから新しいパスワードを設定してください。
		</p>
		<div style="text-align: center; margin-bottom: 30px;">
			<a href="%s" style="display: inline-block; background-color: #2E86DE; color: white; padding: 15px 40px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
				パスワードを再設定する
			</a>
		</div>
		<p style="color: #999; font-size: 14px; margin-bottom: 10px;">
			* このリンクは1時間有効です。
		</p>
		<p style="color: #666; font-size: 12px; word-break: break-all; background-color: #f8f9fa; padding: 10px; border-radius: 4px;">
			%s
		</p>
		<p style="color: #999; font-size: 14px; margin-top: 30px;">
			* 心当たりのない場合は、このメールを無視してください。
		</p>
	</div>
</body>
</html>
`, resetLink, resetLink)

	return sendMail(toEmail, subject, body)
}
