package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Dosada05/football-cup/brackets"
	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/reports"
	"github.com/Dosada05/football-cup/snapshot"
	"github.com/urfave/cli/v2"
)

var errRoundNotReady = errors.New("next round is not ready")

func newApp() *cli.App {
	return &cli.App{
		Name:  "cupctl",
		Usage: "drive the cup progression from a YAML snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "snapshot",
				Aliases:  []string{"s"},
				Usage:    "path to the snapshot file",
				EnvVars:  []string{"CUP_SNAPSHOT"},
				Required: true,
			},
		},
		Commands: []*cli.Command{
			drawCommand(),
			fixturesCommand(),
			standingsCommand(),
			qualifiersCommand(),
			nextRoundCommand(),
			championCommand(),
			exportCommand(),
		},
	}
}

func seedFlag() cli.Flag {
	return &cli.Uint64Flag{Name: "seed", Usage: "seed for a reproducible draw"}
}

func scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.TimestampFlag{Name: "start", Usage: "first kick-off (RFC 3339)", Layout: time.RFC3339},
		&cli.DurationFlag{Name: "interval", Usage: "gap between kick-offs", Value: 2 * time.Hour},
	}
}

func drawCommand() *cli.Command {
	return &cli.Command{
		Name:  "draw",
		Usage: "draw the 16 teams into groups A..D and save the snapshot",
		Flags: []cli.Flag{seedFlag()},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			assignments, err := brackets.AssignGroups(newDraw(c), snap.Teams)
			if err != nil {
				return err
			}

			byID := make(map[int]*models.Team, len(snap.Teams))
			for _, t := range snap.Teams {
				byID[t.ID] = t
			}
			for _, a := range assignments {
				g := a.Group
				byID[a.TeamID].Group = &g
			}
			if err := snap.WriteFile(c.String("snapshot")); err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tTEAM")
			for _, a := range assignments {
				fmt.Fprintf(w, "%s\t%s\n", a.Group, byID[a.TeamID].Name)
			}
			return w.Flush()
		},
	}
}

func fixturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "schedule the group round robin and save the snapshot",
		Flags: scheduleFlags(),
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			start, err := startTime(c)
			if err != nil {
				return err
			}
			fixtures, err := brackets.GroupFixtures(snap.Teams, snap.Matches, start, c.Duration("interval"))
			if err != nil {
				return err
			}
			if fixtures == nil {
				return fmt.Errorf("%w: groups must be drawn and have no matches", errRoundNotReady)
			}

			id := snap.NextMatchID()
			for _, f := range fixtures {
				g := f.Group
				snap.Matches = append(snap.Matches, &models.Match{
					ID:          id,
					Phase:       models.PhaseGroups,
					Group:       &g,
					TeamAID:     f.TeamAID,
					TeamBID:     f.TeamBID,
					ScheduledAt: f.ScheduledAt,
				})
				id++
			}
			if err := snap.WriteFile(c.String("snapshot")); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "scheduled %d group matches\n", len(fixtures))
			return nil
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the group-phase table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "group", Usage: "only this group (A..D)"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			grouped := brackets.GroupStandings(brackets.ComputeStandings(snap.Teams, brackets.GroupPhaseMatches(snap.Matches)))

			groups := append([]models.GroupLabel{}, models.AllGroups...)
			if only := c.String("group"); only != "" {
				g := models.GroupLabel(strings.ToUpper(only))
				if !g.Valid() {
					return fmt.Errorf("unknown group %q", only)
				}
				groups = []models.GroupLabel{g}
			} else if len(grouped[models.GroupUnassigned]) > 0 {
				groups = append(groups, models.GroupUnassigned)
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, g := range groups {
				fmt.Fprintf(w, "%s\n", reports.SheetName(g))
				fmt.Fprintln(w, "#\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts\tY\tR\t")
				for i, r := range grouped[g] {
					fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
						i+1, r.TeamName, r.Played, r.Wins, r.Draws, r.Losses,
						r.GoalsFor, r.GoalsAgainst, r.GoalDifference, r.Points, r.YellowCards, r.RedCards)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}

func qualifiersCommand() *cli.Command {
	return &cli.Command{
		Name:  "qualifiers",
		Usage: "print the two qualifiers of every group",
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			set := brackets.GroupQualifiers(snap.Teams, snap.Matches)

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tFIRST\tSECOND")
			for i := range set.Firsts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", set.Firsts[i].GroupOrUnassigned(), set.Firsts[i].TeamName, set.Seconds[i].TeamName)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			for _, g := range set.Incomplete {
				fmt.Fprintf(c.App.Writer, "group %s has fewer than two ranked teams\n", g)
			}
			return nil
		},
	}
}

func nextRoundCommand() *cli.Command {
	flags := append(scheduleFlags(),
		seedFlag(),
		&cli.BoolFlag{Name: "random", Usage: "draw the quarterfinals instead of the fixed cross"},
		&cli.StringFlag{Name: "pairs", Usage: "manual semifinals as teamA:teamB,teamA:teamB"},
		&cli.BoolFlag{Name: "write", Usage: "append the new matches to the snapshot"},
	)
	return &cli.Command{
		Name:  "next-round",
		Usage: "generate the pairings of the next elimination round",
		Flags: flags,
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			bracket, err := nextBracket(c, snap)
			if err != nil {
				return err
			}
			if bracket == nil {
				stage := brackets.Progress(snap.Teams, snap.Matches).Stage
				return fmt.Errorf("%w: cup is at stage %s", errRoundNotReady, stage)
			}

			names := teamNames(snap)
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s\n", bracket.Phase)
			for _, p := range bracket.Pairings {
				fmt.Fprintf(w, "%s\t%s\tvs\t%s\n", p.Slot, names[p.TeamAID], names[p.TeamBID])
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !c.Bool("write") {
				return nil
			}

			start, err := startTime(c)
			if err != nil {
				return err
			}
			id := snap.NextMatchID()
			for i, p := range bracket.Pairings {
				kickoff := start.Add(time.Duration(i) * c.Duration("interval"))
				if p.ScheduledAt != nil {
					kickoff = *p.ScheduledAt
				}
				snap.Matches = append(snap.Matches, &models.Match{
					ID:          id,
					Phase:       bracket.Phase,
					Slot:        p.Slot,
					TeamAID:     p.TeamAID,
					TeamBID:     p.TeamBID,
					ScheduledAt: kickoff,
				})
				id++
			}
			return snap.WriteFile(c.String("snapshot"))
		},
	}
}

func nextBracket(c *cli.Context, snap *snapshot.Snapshot) (*brackets.Bracket, error) {
	switch brackets.Progress(snap.Teams, snap.Matches).Stage {
	case models.StageGroups:
		if !brackets.PhaseComplete(snap.Matches, models.PhaseGroups) {
			return nil, nil
		}
		if c.Bool("random") {
			return brackets.RandomQuarterfinalPairings(newDraw(c), snap.Teams, snap.Matches)
		}
		return brackets.QuarterfinalPairings(snap.Teams, snap.Matches), nil
	case models.StageQuarterfinal:
		if pairs := c.String("pairs"); pairs != "" {
			manual, err := parsePairs(pairs)
			if err != nil {
				return nil, err
			}
			return brackets.SemifinalPairings(snap.Matches, manual)
		}
		return brackets.SemifinalPairings(snap.Matches, brackets.DerivedPairing{})
	case models.StageSemifinal:
		return brackets.FinalPairing(snap.Matches)
	}
	return nil, nil
}

func championCommand() *cli.Command {
	return &cli.Command{
		Name:  "champion",
		Usage: "print the winner of the final",
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			teamID, ok, err := brackets.Champion(snap.Matches)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.App.Writer, "no champion yet")
				return nil
			}
			fmt.Fprintln(c.App.Writer, teamNames(snap)[teamID])
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the group standings to an XLSX workbook",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Value: "standings.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			grouped := brackets.GroupStandings(brackets.ComputeStandings(snap.Teams, brackets.GroupPhaseMatches(snap.Matches)))

			f, err := os.Create(c.Path("out"))
			if err != nil {
				return fmt.Errorf("failed to create workbook: %w", err)
			}
			if err := reports.WriteStandingsXLSX(f, grouped); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %s\n", c.Path("out"))
			return nil
		},
	}
}

func loadSnapshot(c *cli.Context) (*snapshot.Snapshot, error) {
	return snapshot.LoadFile(c.String("snapshot"))
}

func newDraw(c *cli.Context) *brackets.Draw {
	if c.IsSet("seed") {
		return brackets.NewSeededDraw(c.Uint64("seed"))
	}
	return brackets.NewDraw()
}

func startTime(c *cli.Context) (time.Time, error) {
	if ts := c.Timestamp("start"); ts != nil {
		return *ts, nil
	}
	return time.Time{}, errors.New("--start is required")
}

func teamNames(snap *snapshot.Snapshot) map[int]string {
	names := make(map[int]string, len(snap.Teams))
	for _, t := range snap.Teams {
		names[t.ID] = t.Name
	}
	return names
}

// parsePairs reads "1:9,5:13" into a manual semifinal pairing.
func parsePairs(s string) (brackets.ManualPairing, error) {
	var manual brackets.ManualPairing
	parts := strings.Split(s, ",")
	if len(parts) != len(manual.Pairings) {
		return manual, fmt.Errorf("expected %d pairs, got %d", len(manual.Pairings), len(parts))
	}
	for i, part := range parts {
		a, b, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return manual, fmt.Errorf("pair %q must look like teamA:teamB", part)
		}
		teamA, errA := strconv.Atoi(a)
		teamB, errB := strconv.Atoi(b)
		if err := errors.Join(errA, errB); err != nil {
			return manual, fmt.Errorf("pair %q: %w", part, err)
		}
		manual.Pairings[i] = models.Pairing{TeamAID: teamA, TeamBID: teamB}
	}
	return manual, nil
}
