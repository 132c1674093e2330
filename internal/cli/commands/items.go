package commands

import (
	"LostFound/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// itemView — поля заявки, которые показывает CLI.
type itemView struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type"`
	Category *string `json:"category"`
	Tags     *string `json:"tags"`
	Location string  `json:"location"`
	Status   string  `json:"status"`
}

func printItems(list []itemView, empty string) {
	if len(list) == 0 {
		fmt.Fprintln(Out, empty)
		return
	}
	for _, it := range list {
		extra := ""
		if it.Category != nil {
			extra += "  category=" + *it.Category
		}
		if it.Tags != nil {
			extra += "  tags=" + *it.Tags
		}
		fmt.Fprintf(Out, "- %s  [%s] %s @ %s  status=%s%s\n", it.ID, it.Type, it.Title, it.Location, it.Status, extra)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(list))
}

type itemsCmd struct{}

func (itemsCmd) Name() string        { return "items" }
func (itemsCmd) Description() string { return "List reported items, optionally by type" }
func (itemsCmd) Usage() string       { return "items [LOST|FOUND]" }

func (itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	path := "/api/items"
	if len(args) == 1 {
		path += "?type=" + url.QueryEscape(strings.ToUpper(args[0]))
	}
	var list []itemView
	if _, err := anonClient(cfg).Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return err
	}
	printItems(list, "No items")
	return nil
}

type postRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Category string `json:"category,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

type postCmd struct{}

func (postCmd) Name() string        { return "post" }
func (postCmd) Description() string { return "Report a lost or found item" }
func (postCmd) Usage() string {
	return "post <LOST|FOUND> <title> <location> [category] [tags]"
}

func (postCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 || len(args) > 5 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	req := postRequest{Type: strings.ToUpper(args[0]), Title: args[1], Location: args[2]}
	if len(args) > 3 {
		req.Category = args[3]
	}
	if len(args) > 4 {
		req.Tags = args[4]
	}
	var it itemView
	if _, err := c.Do(ctx, http.MethodPost, "/api/items", req, &it); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Item posted: %s\n", it.ID)
	return nil
}

type matchesCmd struct{}

func (matchesCmd) Name() string        { return "matches" }
func (matchesCmd) Description() string { return "Show ranked matches for an item" }
func (matchesCmd) Usage() string       { return "matches <item-id>" }

func (matchesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var list []itemView
	if _, err := anonClient(cfg).Do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(args[0])+"/matches", nil, &list); err != nil {
		return err
	}
	printItems(list, "No matches yet")
	return nil
}

func init() {
	RegisterGroup(GroupItems, itemsCmd{}, postCmd{}, matchesCmd{})
}
