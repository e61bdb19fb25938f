package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/services"
	"github.com/dmitrijs2005/tiernerd/internal/client/validation"
)

const msgNoLists = "You have no lists yet, create one with newlist"

func (a *App) printLists(lists []models.ListSummary) {
	for i, l := range lists {
		line := strconv.Itoa(i+1) + ". " + l.Title + " (" + strconv.Itoa(l.ItemCount) + " items)"
		if l.Description != nil && *l.Description != "" {
			line += " - " + *l.Description
		}
		a.println(line)
	}
}

// Lists prints the user's lists, numbered for the other commands.
func (a *App) Lists(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	lists, err := a.lists.List(ctx, token)
	if err != nil {
		a.logger.Info(ctx, "load lists", "error", err)
		return a.serviceError(ctx, err, services.FeatureLoadLists, token)
	}
	if len(lists) == 0 {
		a.println(msgNoLists)
		return nil
	}
	a.printLists(lists)
	return nil
}

// pickList shows the lists and reads a choice by number or title.
func (a *App) pickList(ctx context.Context, token string) (models.ListSummary, error) {
	lists, err := a.lists.List(ctx, token)
	if err != nil {
		return models.ListSummary{}, a.serviceError(ctx, err, services.FeatureLoadLists, token)
	}
	if len(lists) == 0 {
		return models.ListSummary{}, a.fail(msgNoLists)
	}
	a.printLists(lists)

	choice, err := getSimpleText(a.reader, "Choose a list (number or title)", a.out)
	if err != nil {
		return models.ListSummary{}, err
	}
	if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(lists) {
		return lists[n-1], nil
	}
	for _, l := range lists {
		if strings.EqualFold(l.Title, choice) {
			return l, nil
		}
	}
	return models.ListSummary{}, a.fail("No list matches " + strconv.Quote(choice))
}

// NewList prompts for a title and description and creates the list.
func (a *App) NewList(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	form, err := validation.CreateList(title, description)
	if err != nil {
		return a.fail(err.Error())
	}

	l, err := a.lists.Create(ctx, form.Title, form.Description, token)
	if err != nil {
		a.logger.Info(ctx, "create list", "error", err)
		return a.serviceError(ctx, err, services.FeatureCreateList, token)
	}

	a.printf("Created list %q\n", l.Title)
	return nil
}

// DeleteList removes a list after the user types "yes".
func (a *App) DeleteList(ctx context.Context) error {
	token, err := a.requireToken()
	if err != nil {
		return err
	}

	l, err := a.pickList(ctx, token)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Delete "+strconv.Quote(l.Title)+" and all its items? Type yes to confirm", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}

	if err := a.lists.Delete(ctx, l.ListID, token); err != nil {
		a.logger.Info(ctx, "delete list", "error", err)
		return a.serviceError(ctx, err, services.FeatureDeleteList, token)
	}

	a.printf("Deleted list %q\n", l.Title)
	return nil
}
