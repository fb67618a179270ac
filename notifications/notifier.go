package notifications

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/models"
)

// Notifier renders decision emails and hands them to a Sender.
type Notifier struct {
	sender Sender
	from   string
}

func NewNotifier(sender Sender, from string) *Notifier {
	return &Notifier{sender: sender, from: from}
}

// ArticleApproved tells the author their article was approved.
func (n *Notifier) ArticleApproved(ctx context.Context, article *models.Article) error {
	if article.Author.Email == "" {
		return errors.New("author has no email address")
	}
	return n.sender.Send(ctx, Message{
		Subject: fmt.Sprintf("Article approved: %s", article.Title),
		Body: fmt.Sprintf(
			"Hi %s,\n\nGood news, your article '%s' has been approved.\n\nPublisher: %s\n\nRegards,\nNews App Editor",
			article.Author.Username, article.Title, article.Publisher.Name,
		),
		From: n.from,
		To:   []string{article.Author.Email},
	})
}

// NewArticle sends one message addressed to every subscriber in recipients.
func (n *Notifier) NewArticle(ctx context.Context, article *models.Article, recipients []string, articleURL string) error {
	if len(recipients) == 0 {
		return nil
	}
	return n.sender.Send(ctx, Message{
		Subject: fmt.Sprintf("New article from %s: %s", article.Publisher.Name, article.Title),
		Body: fmt.Sprintf(
			"Hi,\n\nA new article has been published by %s:\n\nTitle: %s\nAuthor: %s\n\nRead it here: %s\n\nRegards,\nNews App",
			article.Publisher.Name, article.Title, article.Author.Username, articleURL,
		),
		From: n.from,
		To:   recipients,
	})
}

// ArticleRejected tells the author why their article was rejected.
func (n *Notifier) ArticleRejected(ctx context.Context, article *models.Article) error {
	if article.Author.Email == "" {
		return errors.New("author has no email address")
	}
	return n.sender.Send(ctx, Message{
		Subject: fmt.Sprintf("Article rejected: %s", article.Title),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour article '%s' was not approved.\n\nReason:\n%s\n\nRegards,\nNews App Editor",
			article.Author.Username, article.Title, article.ReasonOrDefault(),
		),
		From: n.from,
		To:   []string{article.Author.Email},
	})
}
