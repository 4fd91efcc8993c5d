package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatalf("gymcal: %v", err)
	}
}
