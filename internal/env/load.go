package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads .env style files into the process environment so viper's
// AutomaticEnv picks them up. Variables already set in the environment win.
func Load(files ...string) {
	err := godotenv.Load(files...)
	if err == nil {
		return
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Strs("files", files).Msg("no .env file found, using process environment")
		return
	}
	log.Error().Err(err).Msg("error loading .env file")
}
