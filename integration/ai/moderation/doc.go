// Package moderation provides a queue.Handler that classifies task-queued
// content using an OpenAI chat completion as a content moderation judge.
//
// Basic usage:
//
//	client := openai.NewClient(option.WithAPIKey(apiKey))
//	handler := moderation.NewHandler(client)
//	worker.RegisterHandler(handler.Name(), handler.Handle)
//
//	enqueuer.Enqueue(ctx, moderation.Payload{
//		ContentID: "post-123",
//		Text:      submittedText,
//	})
//
// On a flagged verdict, Handle returns ErrContentFlagged so the queue's retry
// policy treats it as a terminal failure rather than retrying a verdict that
// won't change.
package moderation
