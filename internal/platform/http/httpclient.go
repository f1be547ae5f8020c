package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API呼び出し（ナラティブ生成など）用のHTTPクライアントを
// 作成します。http.DefaultClientはタイムアウトを持たないため、外部呼び出しには
// 必ずこちらを使います。
//
// リクエスト全体のタイムアウトは呼び出し元が渡します。接続確立とTLSハンド
// シェイクには別途短い上限を設け、相手側の無応答で再計算パイプラインが
// 固まらないようにします。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
