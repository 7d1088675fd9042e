package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/bpacli"
)

func main() {
	if err := bpacli.GetApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
