package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "Header", header: "Bearer abc.def", want: "abc.def"},
		{name: "Lowercase scheme", header: "bearer abc.def", want: "abc.def"},
		{name: "Header wins over cookie", header: "Bearer from-header", cookie: "from-cookie", want: "from-header"},
		{name: "Cookie fallback", cookie: "from-cookie", want: "from-cookie"},
		{name: "Other scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "Other scheme with cookie", header: "Basic dXNlcjpwYXNz", cookie: "from-cookie", want: "from-cookie"},
		{name: "Scheme only", header: "Bearer", want: ""},
		{name: "Nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders/myorders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}
