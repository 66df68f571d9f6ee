package cmd

import (
	_ "expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
)

func startPprof(port int) {
	log.Printf("Listening for pprof on :%d", port)
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", port), nil); err != nil {
			log.Printf("pprof: %v", err)
		}
	}()
}
