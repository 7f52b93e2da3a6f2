package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/engine"
	"github.com/hammamikhairi/pocketchef/internal/form"
	"github.com/hammamikhairi/pocketchef/internal/logger"
	"github.com/hammamikhairi/pocketchef/internal/recipe"
)

// printer is the output side of the interactive loop. display.UI and
// writerPrinter both satisfy it.
type printer interface {
	Println(a ...interface{})
	Printf(format string, a ...interface{})
}

type writerPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func newWriterPrinter(w io.Writer) *writerPrinter { return &writerPrinter{w: w} }

func (p *writerPrinter) Println(a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, a...)
}

func (p *writerPrinter) Printf(format string, a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\n", a...)
}

// scanLines feeds r line by line into a channel, closed at EOF.
func scanLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

type cliApp struct {
	engine  *engine.Engine
	parser  domain.IntentParser
	out     printer
	input   <-chan string
	confirm domain.Confirmer
	log     *logger.Logger
}

// run dispatches commands until the input closes, the context ends or
// the user quits.
func (a *cliApp) run(ctx context.Context) {
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-a.input:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (args=%q payload=%q)", intent.Type, intent.Args, intent.Payload)
		if !a.handleIntent(ctx, intent) {
			return
		}
	}
}

// handleIntent runs one command. It returns false when the user quits.
// Engine actions report their own failures through the notifier.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentHome:
		a.engine.ShowHome()
	case domain.IntentCategories:
		a.engine.ShowCategories()
	case domain.IntentFavorites:
		a.engine.ShowFavorites()
	case domain.IntentMyRecipes:
		a.engine.ShowMyRecipes()
	case domain.IntentAbout:
		a.engine.ShowAbout()
	case domain.IntentShowRecipe:
		if id, ok := a.recipeID(intent); ok {
			a.engine.ShowRecipe(ctx, id)
		}
	case domain.IntentBack:
		a.engine.CloseRecipe()
	case domain.IntentSearch:
		a.engine.SetSearch(intent.Payload)
	case domain.IntentCategory:
		a.setCategory(intent.Payload)
	case domain.IntentMaxTime:
		a.setMaxTime(intent.Args[0])
	case domain.IntentQuickFilter:
		a.setQuickFilter(intent.Payload)
	case domain.IntentLike:
		if id, ok := a.recipeID(intent); ok {
			a.engine.ToggleLike(ctx, id)
		}
	case domain.IntentFavorite:
		if id, ok := a.recipeID(intent); ok {
			a.engine.ToggleFavorite(ctx, id)
		}
	case domain.IntentRate:
		a.rate(ctx, intent)
	case domain.IntentComment:
		if id, ok := a.recipeID(intent); ok {
			a.engine.Comment(ctx, id, intent.Payload)
		}
	case domain.IntentAdd:
		a.add(ctx, intent.Payload)
	case domain.IntentEdit:
		a.edit(ctx, intent)
	case domain.IntentDelete:
		if id, ok := a.recipeID(intent); ok {
			a.engine.DeleteRecipe(ctx, id, a.confirm)
		}
	case domain.IntentLogin:
		a.engine.Login(ctx, intent.Args[0], intent.Args[1])
	case domain.IntentRegister:
		a.engine.Register(ctx, intent.Args[0], intent.Args[1], intent.Args[2])
	case domain.IntentLogout:
		a.engine.Logout(ctx)
	case domain.IntentShare:
		if id, ok := a.recipeID(intent); ok {
			a.engine.Share(ctx, id)
		}
	case domain.IntentClear:
		a.engine.ClearFilters()
	case domain.IntentReload:
		a.engine.Reload(ctx)
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		a.out.Println("Bye! Happy cooking.")
		return false
	default:
		a.out.Printf("I didn't catch %q. Type 'help' for commands.", intent.Payload)
	}
	return true
}

func (a *cliApp) recipeID(intent *domain.Intent) (int, bool) {
	if len(intent.Args) == 0 {
		a.out.Println("Which recipe? Give its number, e.g. 'show 3'.")
		return 0, false
	}
	id, err := strconv.Atoi(intent.Args[0])
	if err != nil || id <= 0 {
		a.out.Printf("%q is not a recipe number.", intent.Args[0])
		return 0, false
	}
	return id, true
}

func (a *cliApp) setCategory(name string) {
	if strings.EqualFold(name, recipe.FilterAll) {
		a.engine.SetCategory("")
		return
	}
	c, ok := domain.ParseCategory(name)
	if !ok {
		a.out.Printf("Unknown category %q. Try one of: %s.", name, categoryNames())
		return
	}
	a.engine.SetCategory(c)
}

func (a *cliApp) setMaxTime(arg string) {
	if strings.EqualFold(arg, "any") {
		a.engine.SetMaxPrep(0)
		return
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(arg), "m"))
	if err != nil || minutes < 0 {
		a.out.Printf("%q is not a number of minutes.", arg)
		return
	}
	a.engine.SetMaxPrep(minutes)
}

func (a *cliApp) setQuickFilter(name string) {
	f, ok := recipe.ParseQuickFilter(name)
	if !ok {
		a.out.Printf("Unknown filter %q. Try all, quick or a category: %s.", name, categoryNames())
		return
	}
	a.engine.SetQuickFilter(f)
}

func (a *cliApp) rate(ctx context.Context, intent *domain.Intent) {
	id, ok := a.recipeID(intent)
	if !ok {
		return
	}
	stars, err := strconv.Atoi(intent.Args[1])
	if err != nil {
		a.out.Printf("%q is not a number of stars.", intent.Args[1])
		return
	}
	a.engine.Rate(ctx, id, stars)
}

func (a *cliApp) add(ctx context.Context, path string) {
	f, err := form.Load(path)
	if err != nil {
		a.out.Printf("Could not read %s: %s", path, engine.Describe(err))
		return
	}
	a.engine.CreateRecipe(ctx, f)
}

// edit prints the prefilled form for "edit N" and submits the file
// given in "edit N FILE".
func (a *cliApp) edit(ctx context.Context, intent *domain.Intent) {
	id, ok := a.recipeID(intent)
	if !ok {
		return
	}
	if intent.Payload == "" {
		f, err := a.engine.EditForm(ctx, id)
		if err != nil {
			return
		}
		var buf bytes.Buffer
		if err := form.Encode(&buf, f); err != nil {
			a.log.Error("encode form: %v", err)
			return
		}
		a.out.Println(strings.TrimRight(buf.String(), "\n"))
		a.out.Printf("Save this to a file, change it, then run 'edit %d FILE'.", id)
		return
	}

	f, err := form.Load(intent.Payload)
	if err != nil {
		a.out.Printf("Could not read %s: %s", intent.Payload, engine.Describe(err))
		return
	}
	a.engine.UpdateRecipe(ctx, id, f)
}

func categoryNames() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func (a *cliApp) showHelp() {
	lines := []string{
		"Views:",
		"  home / categories / favorites / mine / about",
		"  show N / N         Open recipe N with its comments",
		"  back               Close the open recipe",
		"  share N            Copy a link to recipe N",
		"Filters:",
		"  search TEXT        Match title, author, category or ingredients",
		"  category NAME|all  Only one category",
		"  maxtime N|any      Only recipes ready in N minutes",
		"  filter all|quick|CATEGORY",
		"  clear              Drop every filter",
		"Actions (login required):",
		"  like N / fav N     Toggle like or favorite",
		"  rate N S           Rate recipe N with S stars (1-5)",
		"  comment N TEXT     Comment on recipe N",
		"  add FILE.yaml      Post a new recipe",
		"  edit N [FILE.yaml] Print the form for N, or submit changes",
		"  delete N           Delete one of your recipes",
		"Account:",
		"  login USER PASS / register USER PASS PASS / logout",
		"Other:",
		"  reload / help / quit",
	}
	for _, l := range lines {
		a.out.Println(l)
	}
}
