package ecc

import "github.com/rs/zerolog/log"

func debugLog(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
