package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host              string        `env:"HOST,required=true"`
	Port              int           `env:"PORT,required=true"`
	DebugPort         int           `env:"DEBUG_PORT"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	ImageDir          string        `env:"IMAGE_DIR,default=images"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	SearchLimit       int           `env:"SEARCH_LIMIT,default=10"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// Words splits the comma-separated censored word list, dropping empty
// entries so a blank variable means "no moderation".
func (c Config) Words() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
