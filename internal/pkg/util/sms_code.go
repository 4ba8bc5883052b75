package util

import (
	"Rex/internal/api/config"
	"fmt"
	"io"
	log "log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

const SuccessResp = "0"
const digits = "0123456789"

func SendSms(phone string, content string) error {
	smsCfg := config.Cfg.SMS
	fullUrl := fmt.Sprintf("%s?u=%s&p=%s&m=%s&c=%s", smsCfg.URL, smsCfg.Username, smsCfg.ApiKey, phone, url.QueryEscape(content))

	log.Info("send sms", "phone", phone)

	client := http.Client{Timeout: 10 * time.Second}
	request, err := http.NewRequest(http.MethodGet, fullUrl, nil)
	if err != nil {
		return err
	}
	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("sms send failed: %s", response.Status)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if string(body) != SuccessResp {
		return fmt.Errorf("sms send failed: response code %s", string(body))
	}
	return nil
}

// SendSmsCode 发送登录验证码短信
func SendSmsCode(phone string, code string) error {
	return SendSms(phone, fmt.Sprintf("【Rex】Your verification code is %s.", code))
}

// SendShareInvite 给未注册用户发送推荐邀请短信，带深链
func SendShareInvite(phone string, senderName string, thingTitle string, link string) error {
	content := fmt.Sprintf("【Rex】%s recommended \"%s\" to you. Check it out: %s", senderName, thingTitle, link)
	return SendSms(phone, content)
}

func GenerateCode(length int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := make([]byte, length)
	for i := range code {
		code[i] = digits[r.Intn(len(digits))]
	}
	return string(code)
}
