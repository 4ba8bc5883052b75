package metadata

import (
	"Rex/internal/api/config"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// newHTTPClient 外部元数据源共用的 resty 客户端
func newHTTPClient() *resty.Client {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", browserUA).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	if proxy := config.Cfg.Metadata.FetchProxy; proxy != "" {
		client.SetProxy(proxy)
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return client
}
