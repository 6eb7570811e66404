// Command bracketctl prints brackets, wheel draws and winners of a
// competition from the backend API or the local demo data.
package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/config"
	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiFlag     = "api"
	timeoutFlag = "timeout"
	lombaFlag   = "lomba"
	formatFlag  = "format"
	seedFlag    = "seed"
	sessionFlag = "session"
)

var version = "v0.1.0-dev"

// runner holds what the commands share. store stays nil until the Before
// hook opens it, unless a test provided one.
type runner struct {
	out   io.Writer
	log   logrus.FieldLogger
	store store.Store
}

func competitionFlag() cli.Flag {
	return &cli.IntFlag{
		Name:     lombaFlag,
		Aliases:  []string{"l"},
		Usage:    "competition id",
		Required: true,
	}
}

func newApp(r *runner) *cli.App {
	return &cli.App{
		Name:      "bracketctl",
		Usage:     "inspect pushbike race brackets",
		Version:   version,
		Writer:    r.out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    apiFlag,
				Usage:   "backend base URL; the demo data is used when empty",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "timeout of one backend call",
				Value: 15 * time.Second,
			},
		},
		Before: func(c *cli.Context) error {
			if r.store != nil {
				return nil
			}
			if base := c.String(apiFlag); base != "" {
				r.store = store.NewAPIStore(base, c.Duration(timeoutFlag), r.log)
				return nil
			}
			r.log.Warn("no API base URL, using demo data")
			r.store = store.NewMemoryStore()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "bracket",
				Usage: "print batches, gates and the matches of both sessions",
				Flags: []cli.Flag{
					competitionFlag(),
					&cli.StringFlag{
						Name:    formatFlag,
						Aliases: []string{"f"},
						Usage:   "yaml or text",
						Value:   "yaml",
					},
				},
				Action: r.printBracket,
			},
			{
				Name:  "wheel",
				Usage: "dry run of the batch wheel; nothing is saved",
				Flags: []cli.Flag{
					competitionFlag(),
					&cli.Int64Flag{
						Name:  seedFlag,
						Usage: "random seed, the current time when 0",
					},
				},
				Action: r.dryRunWheel,
			},
			{
				Name:  "winners",
				Usage: "print the winner of every match of a session",
				Flags: []cli.Flag{
					competitionFlag(),
					&cli.IntFlag{
						Name:  sessionFlag,
						Usage: "1 or 2",
						Value: 2,
					},
				},
				Action: r.printWinners,
			},
			{
				Name:      "hash-password",
				Usage:     "print the bcrypt hash for ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action:    r.hashPassword,
			},
		},
	}
}

func (r *runner) load(c *cli.Context) (model.Competition, []model.Participant, error) {
	id := c.Int(lombaFlag)
	competition, err := r.store.GetCompetition(c.Context, id)
	if err != nil {
		return model.Competition{}, nil, fmt.Errorf("competition %d: %w", id, err)
	}
	riders, err := r.store.ListParticipants(c.Context, id)
	if err != nil {
		return model.Competition{}, nil, fmt.Errorf("participants of %d: %w", id, err)
	}
	return competition, model.PaidOnly(riders), nil
}

func (r *runner) printBracket(c *cli.Context) error {
	competition, paid, err := r.load(c)
	if err != nil {
		return err
	}
	b, err := bracket.Build(competition, paid)
	if err != nil {
		return err
	}
	switch c.String(formatFlag) {
	case "yaml":
		return writeYAML(r.out, b)
	case "text":
		return writeText(r.out, b)
	}
	return fmt.Errorf("unknown format %q", c.String(formatFlag))
}

func (r *runner) dryRunWheel(c *cli.Context) error {
	competition, paid, err := r.load(c)
	if err != nil {
		return err
	}
	w, err := bracket.NewWheel(paid, competition.BatchCount)
	if err != nil {
		return err
	}
	seed := c.Int64(seedFlag)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	for !w.Done() {
		p, batch, err := w.Draw(rng)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%-20s #%-6s -> batch %d\n", p.Name, p.Plate, batch)
	}
	r.log.WithFields(logrus.Fields{"competition": competition.ID, "seed": seed, "drawn": len(w.Drawn())}).Info("wheel dry run")
	return writeAssignments(r.out, paid, w)
}

func (r *runner) printWinners(c *cli.Context) error {
	session := c.Int(sessionFlag)
	if session != 1 && session != 2 {
		return fmt.Errorf("session must be 1 or 2, got %d", session)
	}
	_, paid, err := r.load(c)
	if err != nil {
		return err
	}
	groups := bracket.SessionWinners(paid, session)
	if len(groups) == 0 {
		fmt.Fprintln(r.out, bracket.NoWinner)
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(r.out, "%s: %s #%s\n", g.MatchName, g.Winner.Name, g.Winner.Plate)
	}
	return nil
}

func (r *runner) hashPassword(c *cli.Context) error {
	password := c.Args().First()
	if password == "" {
		return errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(hash))
	return nil
}

func main() {
	_ = godotenv.Load(".env", ".env.local")
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := config.NewLogger(cfg)
	log.SetOutput(os.Stderr)

	app := newApp(&runner{out: os.Stdout, log: log})
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("bracketctl")
	}
}
