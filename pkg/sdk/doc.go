// Package linkfinder embeds the month/tag search over a Yonote monitoring
// database without the Telegram bot or the HTTP API.
//
//	client, _ := linkfinder.New(ctx, linkfinder.WithToken(os.Getenv("YONOTE_TOKEN")))
//	defer client.Close()
//
//	months, _ := client.Months(ctx)
//	refs, _ := client.Search(ctx, linkfinder.Selection{
//	    "month": {"Январь"},
//	    "Тема":  {"Безопасность"},
//	})
//
// A selection without months searches every month. Tags of different
// categories are OR-ed together.
package linkfinder
