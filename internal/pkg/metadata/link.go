package metadata

import (
	"context"
	"fmt"
	log "log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"
	"github.com/pkg/errors"
)

// LinkPreview 从任意网页提取的预览信息
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SiteName    string `json:"siteName"`
}

type LinkFetcher interface {
	FetchPreview(ctx context.Context, rawURL string) (*LinkPreview, error)
	Close()
}

type linkFetcherImpl struct {
	http       *resty.Client
	browserCtx context.Context
	cancel     context.CancelFunc
}

// NewLinkFetcher 在单例初始化时启动浏览器引擎
func NewLinkFetcher() LinkFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(browserUA),
	)

	allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		panic(fmt.Sprintf("browser engine startup failed, check chrome install: %v", err))
	}

	return &linkFetcherImpl{
		http:       newHTTPClient(),
		browserCtx: browserCtx,
		cancel:     cancel,
	}
}

// FetchPreview 先走 HTTP 直取；疑似前端渲染页面再用浏览器兜底
func (s *linkFetcherImpl) FetchPreview(ctx context.Context, rawURL string) (*LinkPreview, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, errors.New("invalid url")
	}

	html := ""
	resp, err := s.http.R().SetContext(ctx).Get(rawURL)
	if err == nil {
		html = resp.String()
	}

	lowHtml := strings.ToLower(html)
	if strings.Contains(lowHtml, "loading") || len(html) < 4000 {
		if rendered, renderErr := s.renderPage(rawURL); renderErr == nil {
			html = rendered
		}
	}
	if html == "" {
		return nil, errors.Wrap(err, "link fetch failed")
	}

	preview := &LinkPreview{URL: rawURL}
	s.fillFromOpenGraph(html, preview)

	if preview.Title == "" || preview.Description == "" {
		article, err := readability.FromReader(strings.NewReader(html), parsedURL)
		if err == nil {
			if preview.Title == "" {
				preview.Title = article.Title
			}
			if preview.Description == "" {
				text := regexp.MustCompile(`\s+`).ReplaceAllString(article.TextContent, " ")
				if len(text) > 300 {
					text = text[:300] + "..."
				}
				preview.Description = strings.TrimSpace(text)
			}
			if preview.ImageURL == "" {
				preview.ImageURL = article.Image
			}
			if preview.SiteName == "" {
				preview.SiteName = article.SiteName
			}
		}
	}

	if preview.SiteName == "" {
		preview.SiteName = parsedURL.Hostname()
	}
	if preview.Title == "" {
		return nil, errors.New("no extractable content")
	}

	log.InfoContext(ctx, "link preview fetched", "url", rawURL, "title", preview.Title)
	return preview, nil
}

// renderPage 用无头浏览器渲染后取 HTML
func (s *linkFetcherImpl) renderPage(rawURL string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	defer cancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, 20*time.Second)
	defer timeoutCancel()

	var renderHtml string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(`body`),
		chromedp.OuterHTML("html", &renderHtml),
	)
	return renderHtml, err
}

// fillFromOpenGraph og: 标签优先，通常比正文提取干净
func (s *linkFetcherImpl) fillFromOpenGraph(html string, preview *LinkPreview) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	readMeta := func(property string) string {
		content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
		return strings.TrimSpace(content)
	}

	preview.Title = readMeta("og:title")
	preview.Description = readMeta("og:description")
	preview.ImageURL = readMeta("og:image")
	preview.SiteName = readMeta("og:site_name")

	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if preview.Description == "" {
		content, _ := doc.Find(`meta[name="description"]`).Attr("content")
		preview.Description = strings.TrimSpace(content)
	}
}

func (s *linkFetcherImpl) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
