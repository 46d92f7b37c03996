// vcardcat reads one or more vCard 2.1 sources (local files or http(s) URLs)
// and writes the aggregated address book as CSV, the same shape of
// fetch-then-index-then-print main this was adapted from.
package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Durelius/vcard21/internal/contact"
	"github.com/Durelius/vcard21/internal/vcard"
)

func main() {
	sources := os.Args[1:]
	if len(sources) == 0 {
		log.Fatal("usage: vcardcat <file-or-url> [more sources...]")
	}

	agg := contact.NewAggregator()
	p := vcard.New(vcard.WithLenientBegin())
	p.AddConsumer(agg)

	for _, src := range sources {
		r, closeFn, err := open(src)
		if err != nil {
			log.Fatalf("open %s: %v", src, err)
		}
		if err := p.Parse(r); err != nil {
			closeFn()
			log.Fatalf("parse %s: %v", src, err)
		}
		closeFn()
	}

	if err := gocsv.Marshal(agg.Contacts(), os.Stdout); err != nil {
		log.Fatalf("write csv: %v", err)
	}
}

// open returns a reader over src (an http(s) URL or a local file path) and
// a function the caller must invoke to release the underlying resource.
func open(src string) (io.Reader, func(), error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		res, err := http.Get(src)
		if err != nil {
			return nil, nil, err
		}
		if res.StatusCode > 299 {
			body, _ := io.ReadAll(res.Body)
			res.Body.Close()
			return nil, nil, &httpStatusError{src: src, status: res.StatusCode, body: body}
		}
		return res.Body, func() { res.Body.Close() }, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

type httpStatusError struct {
	src    string
	status int
	body   []byte
}

func (e *httpStatusError) Error() string {
	return "GET " + e.src + " returned status " + http.StatusText(e.status) + ": " + string(e.body)
}
