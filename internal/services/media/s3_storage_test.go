package media

import "testing"

func TestKeyFromURL(t *testing.T) {
	storage := NewS3Storage(nil, "studnet-photos", "https://cdn.example.com")

	cases := []struct {
		name string
		url  string
		key  string
		ok   bool
	}{
		{
			name: "public base url",
			url:  "https://cdn.example.com/studnet-photos/users/7/photos/a.png",
			key:  "users/7/photos/a.png",
			ok:   true,
		},
		{
			name: "endpoint url",
			url:  "http://localhost:9000/studnet-photos/users/7/photos/a.png",
			key:  "users/7/photos/a.png",
			ok:   true,
		},
		{name: "foreign url", url: "https://elsewhere.example/img.png"},
		{name: "bucket only", url: "https://cdn.example.com/studnet-photos/"},
		{name: "empty", url: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := storage.KeyFromURL(tc.url)
			if ok != tc.ok || key != tc.key {
				t.Fatalf("got (%q, %v) want (%q, %v)", key, ok, tc.key, tc.ok)
			}
		})
	}
}
