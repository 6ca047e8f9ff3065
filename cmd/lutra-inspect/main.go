// lutra-inspect reads a JSON-encoded message node from stdin, classifies its
// addressing topology and prints the resulting record skeleton. It performs
// no decryption: there is no session store behind it. Useful for debugging
// stanza captures.
package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/lutra-im/lutra/pkg/client"
	"github.com/lutra-im/lutra/pkg/receive"
	"github.com/lutra-im/lutra/pkg/wire"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := client.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	meID, err := wire.ParseJID(cfg.SelfJID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid LUTRA_SELF_JID")
	}
	var meLID wire.JID
	if cfg.SelfLID != "" {
		if meLID, err = wire.ParseJID(cfg.SelfLID); err != nil {
			log.Fatal().Err(err).Msg("Invalid LUTRA_SELF_LID")
		}
	}

	var node wire.Node
	if err := json.NewDecoder(os.Stdin).Decode(&node); err != nil {
		log.Fatal().Err(err).Msg("Failed to decode node from stdin")
	}

	rec, author, sender, err := receive.ClassifyMessage(&node, meID, meLID)
	if err != nil {
		log.Fatal().Err(err).Msg("Classification failed")
	}
	log.Info().
		Str("type", string(rec.Type)).
		Str("author", author.String()).
		Str("sender", sender.String()).
		Msg("Classified message node")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode record")
	}
}
