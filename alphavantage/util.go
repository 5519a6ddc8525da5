package alphavantage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// wget performs an HTTP GET request to the given address and returns the body.
// Any status other than 200 is an error.
func wget(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// numberedKey matches a quoted string followed by a colon, so values are never touched.
var numberedKey = regexp.MustCompile(`"[0-9]+\. ([^"]*)"\s*:`)

// cleanResponseBody removes the numbering the API puts in front of JSON keys:
// "4. close" becomes "close".
func cleanResponseBody(body []byte) []byte {
	return numberedKey.ReplaceAll(body, []byte(`"$1":`))
}
