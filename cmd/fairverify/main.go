// fairverify recomputes a game outcome from public seeds, for external
// audit. It runs the exact resolver the platform settles bets with.
//
//	fairverify -game dice -server <seed> -client <seed> -nonce 7 \
//	    -params '{"target":50,"direction":"over"}' \
//	    -amount 100 -multiplier 1.98 -payout 198
//
// Without -multiplier the tool prints the recomputation only; with it the
// stored outcome is diffed and a non-zero exit signals a mismatch.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/lumenplay/faircore/internal/verify"
)

func main() {
	var (
		game       = flag.String("game", "", "game id (dice, plinko, mines)")
		serverSeed = flag.String("server", "", "server seed")
		clientSeed = flag.String("client", "", "client seed")
		nonce      = flag.Uint64("nonce", 0, "bet nonce")
		paramsJSON = flag.String("params", "{}", "game params as JSON")
		amount     = flag.Int64("amount", 0, "bet amount in minor units")
		multiplier = flag.Float64("multiplier", -1, "stored multiplier to check against")
		payout     = flag.Int64("payout", 0, "stored payout to check against")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *game == "" || *serverSeed == "" {
		log.Fatal().Msg("-game and -server are required")
	}

	var params map[string]any
	if err := json.Unmarshal([]byte(*paramsJSON), &params); err != nil {
		log.Fatal().Err(err).Msg("invalid -params JSON")
	}

	if *multiplier < 0 {
		res, err := verify.Manual(*game, *serverSeed, *clientSeed, *nonce, params)
		if err != nil {
			log.Fatal().Err(err).Msg("recomputation failed")
		}
		json.NewEncoder(os.Stdout).Encode(res)
		return
	}

	report, err := verify.Bet(*game, *serverSeed, *clientSeed, *nonce, params, verify.Stored{
		Amount:     *amount,
		Multiplier: *multiplier,
		Payout:     *payout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("verification failed")
	}

	json.NewEncoder(os.Stdout).Encode(report)
	if !report.Valid {
		for _, m := range report.Mismatches {
			log.Error().Msg(m)
		}
		os.Exit(1)
	}
	log.Info().Msg("outcome verified")
}
