// vcardserver exposes the vCard parser over HTTP: POST a vCard 2.1 stream to
// /parse and get back the aggregated contacts as JSON.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/Durelius/vcard21/internal/contact"
	"github.com/Durelius/vcard21/internal/vcard"
)

func main() {
	addr := os.Getenv("VCARDSERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/parse", handleParse).Methods(http.MethodPost)

	log.Printf("vcardserver listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleParse(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	agg := contact.NewAggregator()
	p := vcard.New(vcard.WithLenientBegin())
	p.AddConsumer(agg)

	if err := p.Parse(r.Body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(agg.Contacts()); err != nil {
		log.Printf("encode response: %v", err)
	}
}
