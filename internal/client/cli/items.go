package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/services"
	"github.com/dmitrijs2005/tiernerd/internal/client/validation"
)

func itemLine(n int, it models.Item) string {
	tier := "unranked"
	if it.Tier != nil && *it.Tier != "" {
		tier = *it.Tier
	}
	line := strconv.Itoa(n) + ". " + it.Name + " [" + tier + "]"
	if it.Description != nil && *it.Description != "" {
		line += " - " + *it.Description
	}
	return line
}

func (a *App) loadItems(ctx context.Context, l models.ListSummary, token string) ([]models.Item, error) {
	items, err := a.lists.Items(ctx, l.ListID, token)
	if err != nil {
		a.logger.Info(ctx, "load items", "list_id", l.ListID, "error", err)
		return nil, a.serviceError(ctx, err, services.FeatureLoadItems, token)
	}
	return items, nil
}

// Items prints the items of a chosen list.
func (a *App) Items(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	l, err := a.pickList(ctx, token)
	if err != nil {
		return err
	}
	items, err := a.loadItems(ctx, l, token)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		a.printf("%q has no items yet, add one with additem\n", l.Title)
		return nil
	}
	for i, it := range items {
		a.println(itemLine(i+1, it))
	}
	return nil
}

// AddItem prompts for the item fields and adds it to a chosen list. When the
// server answers with a comparison session, both items are shown.
func (a *App) AddItem(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	l, err := a.pickList(ctx, token)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter item name", a.out)
	if err != nil {
		return err
	}
	tiers := make([]string, 0, len(models.TierSets))
	for _, t := range models.TierSets {
		tiers = append(tiers, string(t))
	}
	tier, err := getSimpleText(a.reader, "Choose a tier ("+strings.Join(tiers, ", ")+")", a.out)
	if err != nil {
		return err
	}
	description, err := getMultiline(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	form, err := validation.CreateItem(name, models.TierSet(tier), description)
	if err != nil {
		return a.fail(err.Error())
	}

	res, err := a.items.Create(ctx, l.Title, models.CreateItemRequest{
		Name:        form.Name,
		TierSet:     form.TierSet,
		Description: form.Description,
	}, token)
	if err != nil {
		a.logger.Info(ctx, "create item", "list_id", l.ListID, "error", err)
		return a.serviceError(ctx, err, services.FeatureCreateItem, token)
	}

	if res.IsComparison() {
		cs := res.Comparison
		a.printf("Added %q. Which one ranks higher?\n", cs.ItemA.Name)
		a.printf("  A: %s\n  B: %s\n", cs.ItemA.Name, cs.ItemB.Name)
		a.printf("Comparison %s is waiting for you in the app.\n", cs.SessionID)
		return nil
	}

	a.printf("Added %q to %q\n", res.Item.Name, l.Title)
	return nil
}

// EditItem renames an item or replaces its description. Blank answers keep
// the current value.
func (a *App) EditItem(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	l, err := a.pickList(ctx, token)
	if err != nil {
		return err
	}
	items, err := a.loadItems(ctx, l, token)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return a.fail(strconv.Quote(l.Title) + " has no items")
	}
	for i, it := range items {
		a.println(itemLine(i+1, it))
	}

	choice, err := getSimpleText(a.reader, "Choose an item (number)", a.out)
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(choice)
	if convErr != nil || n < 1 || n > len(items) {
		return a.fail("No item number " + strconv.Quote(choice))
	}
	target := items[n-1]

	name, err := getSimpleText(a.reader, "New name (blank keeps "+strconv.Quote(target.Name)+")", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (blank keeps current)", a.out)
	if err != nil {
		return err
	}

	var req models.UpdateItemRequest
	if name != "" {
		name, err = validation.RenameItem(name)
		if err != nil {
			return a.fail(err.Error())
		}
		req.Name = &name
	}
	if description != "" {
		req.Description = &description
	}
	if req.Name == nil && req.Description == nil {
		a.println("Nothing to change")
		return nil
	}

	it, err := a.items.Update(ctx, target.ItemID, req, token)
	if err != nil {
		a.logger.Info(ctx, "update item", "item_id", target.ItemID, "error", err)
		return a.serviceError(ctx, err, services.FeatureUpdateItem, token)
	}

	a.printf("Updated %q\n", it.Name)
	return nil
}
