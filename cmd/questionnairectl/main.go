// questionnairectl administra un servidor de cuestionario a través de su API JSON.
package main

import (
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"questionnaire-app/internal/platform/httpclient"
	"questionnaire-app/internal/platform/logger"
)

type logConfig struct {
	Level  string `long:"level" env:"LEVEL" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Logging level"`
	Format string `long:"format" env:"FORMAT" default:"text" choice:"json" choice:"text" description:"Logging output format"`
}

type baseConfig struct {
	Server  string        `long:"server" env:"QUESTIONNAIRE_SERVER" default:"http://localhost:8080" description:"Base URL of the questionnaire server"`
	Timeout time.Duration `long:"timeout" default:"10s" description:"Request timeout"`
	Log     logConfig     `group:"Logging" namespace:"log" env-namespace:"LOG"`
}

var (
	baseCfg = new(baseConfig)

	// stdout se reemplaza en tests.
	stdout io.Writer = os.Stdout
)

func newParser() *flags.Parser {
	parser := flags.NewParser(baseCfg, flags.Default)

	mustAdd(parser.AddCommand("list", "List stored responses", `
List questionnaire responses as a table, ordered by id.

Restrict to one gender with --gender (Male, Female or Other; exact match).
`, &cmdList{}))
	mustAdd(parser.AddCommand("add", "Submit a response", `
Submit one response. Values follow the same constraints as the web form:
age between 1 and 100, gender and pet from their fixed sets.
`, &cmdAdd{}))
	mustAdd(parser.AddCommand("stats", "Show general statistics", `
Print the mean age, the gender counts and the pet preference shares.
`, &cmdStats{}))
	mustAdd(parser.AddCommand("delete", "Delete one response by id", `
Delete the response with the given --id. A missing id is reported, not treated as a failure.
`, &cmdDelete{}))
	mustAdd(parser.AddCommand("purge", "Delete every response", `
Delete every stored response. Requires --yes.
`, &cmdPurge{}))

	return parser
}

func main() {
	if _, err := newParser().Parse(); err != nil {
		// flags.Default ya imprimió el error
		os.Exit(1)
	}
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

func newLogger() logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(baseCfg.Log.Level),
		Format: logger.ParseFormat(baseCfg.Log.Format),
		App:    "questionnairectl",
		Output: os.Stderr,
	})
}

func newClient() (*httpclient.Client, error) {
	return httpclient.New(baseCfg.Server, baseCfg.Timeout)
}
