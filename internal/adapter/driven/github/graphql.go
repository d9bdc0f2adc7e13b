package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// graphqlHTTPClient is the HTTP client used for GraphQL requests.
// It enforces a 30-second timeout as a safety net alongside context cancellation.
var graphqlHTTPClient = &http.Client{Timeout: 30 * time.Second}

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100) {
				pageInfo {
					hasNextPage
				}
				nodes {
					id
					isResolved
					comments(first: 100) {
						nodes {
							databaseId
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse represents the expected shape of a GitHub GraphQL response
// for the review threads query.
type graphqlResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool `json:"hasNextPage"`
					} `json:"pageInfo"`
					Nodes []struct {
						ID         string `json:"id"`
						IsResolved bool   `json:"isResolved"`
						Comments   struct {
							Nodes []struct {
								DatabaseID int64 `json:"databaseId"`
							} `json:"nodes"`
						} `json:"comments"`
					} `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchReviewThreads queries the GitHub GraphQL API for the PR's review
// threads: each thread's node id, resolution flag, and member comment
// database ids. One batched query covers up to 100 threads with up to 100
// comments each.
//
// Unlike the REST methods, errors here are returned to the caller; the
// thread resolver decides how to degrade.
func (c *Client) FetchReviewThreads(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewThread, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	reqBody := graphqlRequest{
		Query: reviewThreadsQuery,
		Variables: map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling review threads query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating review threads request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("review threads query for %s#%d: %w", repoFullName, prNumber, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("review threads query for %s#%d: HTTP %d", repoFullName, prNumber, resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("decoding review threads response for %s#%d: %w", repoFullName, prNumber, err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("review threads query for %s#%d: %s", repoFullName, prNumber, gqlResp.Errors[0].Message)
	}

	threads := gqlResp.Data.Repository.PullRequest.ReviewThreads

	if threads.PageInfo.HasNextPage {
		slog.Warn("graphql: review threads exceed 100, pagination needed",
			"repo", repoFullName,
			"pr", prNumber,
		)
	}

	result := make([]model.ReviewThread, 0, len(threads.Nodes))
	for _, thread := range threads.Nodes {
		t := model.ReviewThread{
			NodeID:     thread.ID,
			IsResolved: thread.IsResolved,
		}
		for _, comment := range thread.Comments.Nodes {
			if comment.DatabaseID != 0 {
				t.CommentIDs = append(t.CommentIDs, comment.DatabaseID)
			}
		}
		result = append(result, t)
	}

	return result, nil
}
