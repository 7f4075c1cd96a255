package service

import (
	"crypto/tls"
	"time"

	"wopanel/pkg/core/logger"

	"github.com/valyala/fasthttp"
)

// SSLProbe 探测站点 HTTPS 可达性
type SSLProbe struct {
	client  *fasthttp.Client
	timeout time.Duration
	log     *logger.Log
}

// NewSSLProbe 创建探测器，timeout 为单次探测上限
func NewSSLProbe(timeout time.Duration, log *logger.Log) *SSLProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &SSLProbe{
		client: &fasthttp.Client{
			// 只探测可达性，证书有效性由浏览器侧判断
			TLSConfig:    &tls.Config{InsecureSkipVerify: true},
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
		log:     log.WithEntryName("SSLProbe"),
	}
}

// Secure 对 https://<domain> 发 HEAD 请求，5xx 以下视为证书在工作
func (p *SSLProbe) Secure(domain string) bool {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("https://" + domain)
	req.Header.SetMethod(fasthttp.MethodHead)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		p.log.WithField("domain", domain).WithErr(err).Debug("HTTPS 探测失败")
		return false
	}
	return resp.StatusCode() < 500
}
