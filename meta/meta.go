// meta/meta.go
package meta

import "time"

// DEPTH defines the default search depth of the bot, in plies.
const DEPTH = 8

// MAX_TURNS caps the length of an automated game.
const MAX_TURNS = 1000

// BOT_DELAY defines how long the bot waits before replying to a human.
const BOT_DELAY = time.Second

// NUM_GAMES defines the number of games per experiment matchup.
const NUM_GAMES = 20

const ADDR = ":8080"

const OUTPUT_DIR = "results"
