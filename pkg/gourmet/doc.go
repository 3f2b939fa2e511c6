// Package gourmet embeds the restaurant search service in a Go program
// without the HTTP layer.
//
// The client talks to Valkey or Redis for restaurant records and to an
// OpenAI-compatible backend for the model stages of search and the assistant.
// Search keeps answering when the model is unavailable: every stage falls back
// to a rule-based result, including when a WithTokenBudget cap is spent.
// Client.Usage reports the tokens consumed today or this month.
//
//	client, err := gourmet.New(ctx,
//	    gourmet.WithValkey("localhost:6379", ""),
//	    gourmet.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "", "gpt-4o-mini"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	_, _ = client.Restaurants().Create(ctx, gourmet.Restaurant{
//	    Name: "鮨 さいとう", Address: "港区六本木1-4-5", Area: "六本木",
//	    Cuisine: []string{"寿司"}, PriceCategory: "¥¥¥¥",
//	})
//	res, _ := client.Search(ctx, gourmet.SearchRequest{Query: "六本木で寿司"})
//	fmt.Println(res.Message)
package gourmet
