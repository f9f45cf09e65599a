package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{
			name:       "peer address without port",
			remoteAddr: "198.51.100.7:52114",
			want:       "198.51.100.7",
		},
		{
			name:         "forwarded-for single hop",
			forwardedFor: "203.0.113.9",
			remoteAddr:   "10.0.0.1:80",
			want:         "203.0.113.9",
		},
		{
			name:         "forwarded-for last hop wins",
			forwardedFor: "203.0.113.9, 10.0.1.24, 172.16.0.3",
			remoteAddr:   "10.0.0.1:80",
			want:         "172.16.0.3",
		},
		{
			name: "nothing available",
			want: "",
		},
		{
			name:       "peer address without port suffix",
			remoteAddr: "2001:db8::1",
			want:       "2001:db8::1",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := Info{ForwardedFor: c.forwardedFor, RemoteAddr: c.remoteAddr}
			if got := in.ClientIP(); got != c.want {
				t.Errorf("ClientIP() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	r := httptest.NewRequest("GET", "/test/?testkey=testvalue&testkey=other", nil)
	r.Header.Set("Accept-Language", "en-GB;q=0.9, fr;q=0.5")
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "198.51.100.7:52114"

	in := Snapshot(r, "test", map[string]string{"k": "v"}, "dev-1", 1700000000000, nil)

	if in.Method != "GET" || in.Path != "/test/" {
		t.Errorf("method/path = %s %s", in.Method, in.Path)
	}
	if in.RouteName != "test" {
		t.Errorf("route name = %q", in.RouteName)
	}
	if got := in.Query["testkey"]; len(got) != 2 || got[0] != "testvalue" || got[1] != "other" {
		t.Errorf("query values = %v, want both repetitions preserved", got)
	}
	if in.Language != "en-GB" {
		t.Errorf("language = %q, want en-GB", in.Language)
	}
	if in.UserAgent != "test-agent" {
		t.Errorf("user agent = %q", in.UserAgent)
	}
	if in.DeviceID != "dev-1" || in.SessionID != 1700000000000 {
		t.Errorf("identity = %q/%d", in.DeviceID, in.SessionID)
	}
	if in.User != nil {
		t.Error("user should be nil")
	}
}
