package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("portfolio")
		os.Exit(1)
	}
}
