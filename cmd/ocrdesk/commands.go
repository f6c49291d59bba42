package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	ocrdesk "github.com/kailas-cloud/ocrdesk/pkg/sdk"
)

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// home shows the dashboard when logged in and a login hint otherwise.
func (a *app) home(ctx context.Context, c *ocrdesk.Client, _ []string) error {
	if c.DefaultRoute() == ocrdesk.RouteLogin {
		fmt.Fprintln(a.stdout, "Not logged in. Run: ocrdesk login -email <email> -password <password>")
		return nil
	}
	if err := a.stats(ctx, c, nil); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout)
	return a.list(ctx, c, nil)
}

func (a *app) login(ctx context.Context, c *ocrdesk.Client, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := c.Login(ctx, *email, *password)
	if err != nil {
		return errors.New(ocrdesk.FailureMessage(err, "Login failed"))
	}
	fmt.Fprintf(a.stdout, "Logged in as %s <%s>\n", u.Username, u.Email)
	return nil
}

func (a *app) register(ctx context.Context, c *ocrdesk.Client, args []string) error {
	fs := a.flags("register")
	var r ocrdesk.Registration
	fs.StringVar(&r.Username, "username", "", "user name")
	fs.StringVar(&r.Email, "email", "", "account email")
	fs.StringVar(&r.Password, "password", "", "password, at least 6 characters")
	fs.StringVar(&r.ConfirmPassword, "confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := c.Register(ctx, r)
	if err != nil {
		return errors.New(ocrdesk.FailureMessage(err, "Registration failed"))
	}
	fmt.Fprintf(a.stdout, "Registered and logged in as %s <%s>\n", u.Username, u.Email)
	return nil
}

func (a *app) logout(ctx context.Context, c *ocrdesk.Client, _ []string) error {
	if err := c.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func (a *app) me(ctx context.Context, c *ocrdesk.Client, _ []string) error {
	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s <%s> (%s)\n", u.Username, u.Email, u.ID)
	return nil
}

func (a *app) upload(ctx context.Context, c *ocrdesk.Client, args []string) error {
	fs := a.flags("upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("upload: at least one file is required")
	}

	files := make([]ocrdesk.File, 0, fs.NArg())
	for _, path := range fs.Args() {
		f, err := ocrdesk.FileFromPath(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	queued, err := c.Uploads().Select(files)
	if err != nil {
		return err
	}
	if skipped := len(files) - len(queued); skipped > 0 {
		fmt.Fprintf(a.stderr, "Skipped %d file(s): only JPEG, PNG and PDF up to 10 MB are accepted\n", skipped)
	}
	if len(queued) == 0 {
		return nil
	}
	for _, q := range queued {
		fmt.Fprintf(a.stdout, "Uploading %s as %q (%s)\n", q.Name, q.Title, ocrdesk.Document{FileSize: q.Size}.SizeLabel())
	}

	rep, err := c.Uploads().Launch(ctx)
	if err != nil {
		return err
	}
	if len(rep.Failed) > 0 {
		return fmt.Errorf("%d of %d upload(s) failed", len(rep.Failed), len(queued))
	}
	return nil
}

func (a *app) list(ctx context.Context, c *ocrdesk.Client, args []string) error {
	fs := a.flags("list")
	page := fs.Int("page", 1, "page number, starting at 1")
	limit := fs.Int("limit", 0, "page size: 5, 10 or 25")
	search := fs.String("search", "", "filter by title or text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	docs := c.Documents()
	if *limit != 0 {
		if err := docs.SetPageSize(ctx, *limit); err != nil {
			return err
		}
	}
	if *search != "" {
		if err := docs.SetSearch(ctx, *search); err != nil {
			return err
		}
	}
	if err := docs.SetPage(ctx, *page-1); err != nil {
		return err
	}
	a.printSnapshot(docs.Snapshot())
	return nil
}

func (a *app) search(ctx context.Context, c *ocrdesk.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("search: text is required")
	}
	docs := c.Documents()
	if err := docs.SetSearch(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	a.printSnapshot(docs.Snapshot())
	return nil
}

func (a *app) show(ctx context.Context, c *ocrdesk.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("show: document id is required")
	}
	v := c.Documents().Get(ctx, args[0])
	if v.Document == nil {
		return errors.New(v.Message)
	}
	d := v.Document
	fmt.Fprintf(a.stdout, "%s\n%s · %s · %s · %s\n\n", d.Title, d.OriginalName, d.TypeLabel(), d.SizeLabel(), d.Status)
	if v.State == ocrdesk.DetailText {
		fmt.Fprintln(a.stdout, v.Text)
		return nil
	}
	fmt.Fprintln(a.stdout, v.Message)
	return nil
}

func (a *app) remove(ctx context.Context, c *ocrdesk.Client, args []string) error {
	fs := a.flags("delete")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("delete: document id is required")
	}
	a.mu.Lock()
	a.assumeYes = *yes
	a.mu.Unlock()

	id := fs.Arg(0)
	v := c.Documents().Get(ctx, id)
	if v.Document == nil {
		return errors.New(v.Message)
	}
	err := c.Documents().Delete(ctx, id, v.Document.Title)
	if errors.Is(err, ocrdesk.ErrDeclined) {
		fmt.Fprintln(a.stdout, "Cancelled")
		return nil
	}
	return err
}

func (a *app) stats(ctx context.Context, c *ocrdesk.Client, _ []string) error {
	counts, err := c.Stats().Refresh(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOTAL\tPENDING\tPROCESSING\tCOMPLETED\tFAILED")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n", counts.Total, counts.Pending, counts.Processing, counts.Completed, counts.Failed)
	return tw.Flush()
}

func (a *app) printSnapshot(s ocrdesk.Snapshot) {
	if len(s.Items) == 0 {
		fmt.Fprintln(a.stdout, s.EmptyMessage)
		return
	}
	writeTable(a.stdout, s.Items)
	fmt.Fprintf(a.stdout, "\nPage %d of %d · %d document(s)\n", s.Page+1, s.PageCount, s.Total)
}

func writeTable(w io.Writer, docs []ocrdesk.Document) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tSIZE\tSTATUS\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Title, d.TypeLabel(), d.SizeLabel(), d.Status, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}
