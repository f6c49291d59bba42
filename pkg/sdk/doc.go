// Package ocrdesk is a Go client for a document-OCR service.
//
// A Client keeps one authenticated session and exposes the client-state
// engine behind the OCR web UI: concurrent multi-file uploads, a paginated
// searchable document listing, status counts and a single-document view.
//
//	client, _ := ocrdesk.New(ctx,
//	    ocrdesk.WithBaseURL("http://localhost:5000/api"),
//	    ocrdesk.WithFileSession(""),
//	)
//	defer client.Close()
//
//	_, _ = client.Login(ctx, "ann@example.com", "secret")
//
//	f, _ := ocrdesk.FileFromPath("invoice.pdf")
//	_, _ = client.Uploads().Select([]ocrdesk.File{f})
//	report, _ := client.Uploads().Launch(ctx)
//
//	_ = client.Documents().SetSearch(ctx, "invoice")
//	snap := client.Documents().Snapshot()
//	view := client.Documents().Get(ctx, snap.Items[0].ID)
//
// A 401 from any call discards the credential and calls the handler set
// with WithUnauthorizedHandler; callers then route to login.
package ocrdesk
