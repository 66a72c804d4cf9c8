package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/httpclient"
)

const (
	apiVersion     = "7.0"
	defaultBaseURL = "https://dev.azure.com"
)

// Client represents an Azure DevOps API client
type Client struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
}

// NewClient creates a new Azure DevOps client. organization is either the
// organization name or its full URL.
func NewClient(organization, pat string) *Client {
	// Normalize organization URL
	org := strings.TrimSuffix(organization, "/")
	if !strings.HasPrefix(org, "https://") && !strings.HasPrefix(org, "http://") {
		org = defaultBaseURL + "/" + org
	}

	return &Client{
		baseURL:    org,
		token:      pat,
		httpClient: httpclient.New(),
	}
}

// BaseURL returns the base URL of the Azure DevOps organization
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PullRequest represents an Azure DevOps pull request
type PullRequest struct {
	ID           int    `json:"pullRequestId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	URL          string `json:"url"`
	SourceBranch string `json:"sourceRefName"`
	TargetBranch string `json:"targetRefName"`
}

// CreatePRRequest represents a request to create a pull request
type CreatePRRequest struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	AutoComplete bool
}

type pullRequestList struct {
	Value []PullRequest `json:"value"`
	Count int           `json:"count"`
}

// CreatePullRequest opens a pull request. Branch names must be full refs.
func (c *Client) CreatePullRequest(
	ctx context.Context,
	project, repository string,
	req CreatePRRequest,
) (*PullRequest, error) {
	body := map[string]interface{}{
		"sourceRefName": req.SourceBranch,
		"targetRefName": req.TargetBranch,
		"title":         req.Title,
		"description":   req.Description,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.pullRequestsEndpoint(project, repository, nil), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create PR: %w", err)
	}

	var pr PullRequest
	if err = json.Unmarshal(resp, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse PR response: %w", err)
	}

	if req.AutoComplete {
		updateBody := map[string]interface{}{
			"autoCompleteSetBy": map[string]string{"id": "me"},
		}
		updateEndpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s/pullrequests/%d?api-version=%s",
			url.PathEscape(project), url.PathEscape(repository), pr.ID, apiVersion)
		if _, err = c.doRequest(ctx, http.MethodPatch, updateEndpoint, updateBody); err != nil {
			return &pr, fmt.Errorf("PR #%d created but auto-complete failed: %w", pr.ID, err)
		}
	}

	return &pr, nil
}

// ActivePullRequests lists the active pull requests opened from sourceRef.
func (c *Client) ActivePullRequests(
	ctx context.Context,
	project, repository, sourceRef string,
) ([]PullRequest, error) {
	query := url.Values{}
	query.Set("searchCriteria.sourceRefName", sourceRef)
	query.Set("searchCriteria.status", "active")

	resp, err := c.doRequest(ctx, http.MethodGet, c.pullRequestsEndpoint(project, repository, query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs: %w", err)
	}

	var list pullRequestList
	if err = json.Unmarshal(resp, &list); err != nil {
		return nil, fmt.Errorf("failed to parse PR list: %w", err)
	}
	return list.Value, nil
}

// WebURL is the browser link of a pull request (the API returns its REST URL).
func (c *Client) WebURL(project, repository string, id int) string {
	return fmt.Sprintf("%s/%s/_git/%s/pullrequest/%d",
		c.baseURL, url.PathEscape(project), url.PathEscape(repository), id)
}

func (c *Client) pullRequestsEndpoint(project, repository string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", apiVersion)
	return fmt.Sprintf("/%s/_apis/git/repositories/%s/pullrequests?%s",
		url.PathEscape(project), url.PathEscape(repository), query.Encode())
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody interface{}
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = jsonBody
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set Basic Auth with PAT
	auth := base64.StdEncoding.EncodeToString([]byte(":" + c.token))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
