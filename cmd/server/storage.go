package main

import (
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/config"
	"github.com/torchlight-safety/warden/internal/storage"
)

// InitStorage selects and returns the configured attachment storage backend.
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces attachment storage")
		return spacesStorage
	}

	local := storage.NewLocalStorage("./attachments")
	log.Info().Msg("using local attachment storage in ./attachments")
	return local
}
