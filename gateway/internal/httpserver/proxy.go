package httpserver

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	echo "github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/pkg/logging"
)

func newProxy(target string) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	p := &httputil.ReverseProxy{
		Transport:     baseTransport,
		FlushInterval: 100 * time.Millisecond,
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromContext(r.Context()).Error("proxy_failed", "status", 502, "upstream", u.Host, "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return func(c echo.Context) error {
		// upstream logs share our request id
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			c.Request().Header.Set(echo.HeaderXRequestID, rid)
		}
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}
