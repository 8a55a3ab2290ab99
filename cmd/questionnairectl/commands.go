package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"questionnaire-app/internal/platform/httpclient"
)

type responseItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	PetPreference string `json:"pet_preference"`
}

type categoryCount struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type statsPayload struct {
	Count        int             `json:"count"`
	MeanAge      float64         `json:"mean_age"`
	GenderCounts []categoryCount `json:"gender_counts"`
	PetShares    []categoryCount `json:"pet_shares"`
}

type cmdList struct {
	Gender string `long:"gender" short:"g" choice:"Male" choice:"Female" choice:"Other" description:"Only list responses with this gender"`
}

func (cmd *cmdList) Execute([]string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	path := "/api/responses"
	if cmd.Gender != "" {
		path += "?gender=" + url.QueryEscape(cmd.Gender)
	}

	var items []responseItem
	if err := client.DoJSON(context.Background(), http.MethodGet, path, nil, &items); err != nil {
		return errors.Wrap(err, "listing responses")
	}
	newLogger().Debug("listed responses", map[string]any{"count": len(items), "gender": cmd.Gender})

	if len(items) == 0 {
		fmt.Fprintln(stdout, "No responses.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			strconv.Itoa(it.Age),
			it.Gender,
			it.PetPreference,
		})
	}
	return printTable([]string{"ID", "Name", "Age", "Gender", "Pet preference"}, rows)
}

type cmdAdd struct {
	Name   string `long:"name" short:"n" required:"true" description:"Respondent name"`
	Age    int    `long:"age" short:"a" required:"true" description:"Age (1-100)"`
	Gender string `long:"gender" short:"g" required:"true" choice:"Male" choice:"Female" choice:"Other" description:"Gender"`
	Pet    string `long:"pet" short:"p" required:"true" choice:"Dog" choice:"Cat" choice:"Fish" choice:"Other" description:"Pet preference"`
}

func (cmd *cmdAdd) Execute([]string) error {
	if cmd.Age < 1 || cmd.Age > 100 {
		return fmt.Errorf("--age must be between 1 and 100")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var created responseItem
	err = client.DoJSON(context.Background(), http.MethodPost, "/api/responses", map[string]any{
		"name":           cmd.Name,
		"age":            cmd.Age,
		"gender":         cmd.Gender,
		"pet_preference": cmd.Pet,
	}, &created)
	if err != nil {
		return errors.Wrap(err, "submitting response")
	}

	fmt.Fprintf(stdout, "Response %d stored.\n", created.ID)
	return nil
}

type cmdStats struct{}

func (cmd *cmdStats) Execute([]string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var stats statsPayload
	if err := client.DoJSON(context.Background(), http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return errors.Wrap(err, "fetching stats")
	}

	if stats.Count == 0 {
		fmt.Fprintln(stdout, "No responses.")
		return nil
	}

	fmt.Fprintf(stdout, "Responses: %d\nMean age: %.2f\n\n", stats.Count, stats.MeanAge)

	genders := make([][]string, 0, len(stats.GenderCounts))
	for _, c := range stats.GenderCounts {
		genders = append(genders, []string{c.Key, strconv.Itoa(c.Count)})
	}
	if err := printTable([]string{"Gender", "Count"}, genders); err != nil {
		return err
	}

	fmt.Fprintln(stdout)

	pets := make([][]string, 0, len(stats.PetShares))
	for _, c := range stats.PetShares {
		pets = append(pets, []string{c.Key, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", c.Percent)})
	}
	return printTable([]string{"Pet", "Count", "Share"}, pets)
}

type cmdDelete struct {
	ID int64 `long:"id" required:"true" description:"Response id to delete"`
}

func (cmd *cmdDelete) Execute([]string) error {
	if cmd.ID < 1 {
		return fmt.Errorf("--id must be >= 1")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	err = client.DoJSON(context.Background(), http.MethodDelete, "/api/responses/"+strconv.FormatInt(cmd.ID, 10), nil, nil)
	switch {
	case httpclient.StatusOf(err) == http.StatusNotFound:
		fmt.Fprintf(stdout, "No response found with id %d.\n", cmd.ID)
		return nil
	case err != nil:
		return errors.Wrapf(err, "deleting response %d", cmd.ID)
	}

	fmt.Fprintf(stdout, "Response %d deleted.\n", cmd.ID)
	return nil
}

type cmdPurge struct {
	Yes bool `long:"yes" description:"Confirm deletion of every response"`
}

func (cmd *cmdPurge) Execute([]string) error {
	if !cmd.Yes {
		return fmt.Errorf("refusing to delete all responses without --yes")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := client.DoJSON(context.Background(), http.MethodDelete, "/api/responses", nil, &out); err != nil {
		return errors.Wrap(err, "deleting all responses")
	}

	newLogger().Warn("all responses deleted", map[string]any{"count": out.Deleted, "server": baseCfg.Server})
	fmt.Fprintf(stdout, "Deleted %d responses.\n", out.Deleted)
	return nil
}

func printTable(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(stdout)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return errors.Wrap(err, "appending table row")
		}
	}
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "rendering table")
	}
	return nil
}
