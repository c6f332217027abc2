// Package ragdex provides a Go client for the ragdex retrieval and
// summarization API.
//
//	client := ragdex.New("http://localhost:8080")
//	results, _, err := client.Search(ctx, "vector databases", ragdex.WithTopK(3))
//	if err != nil {
//	    return err
//	}
//	texts := make([]string, len(results))
//	for i, r := range results {
//	    texts[i] = r.Text
//	}
//	summary, err := client.Summarize(ctx, texts, ragdex.LengthShort)
package ragdex
