package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var entities = []string{"licenses", "vehicles", "violations", "authorities"}

// options are the global flags.
type options struct {
	baseURL string
	timeout time.Duration
	token   string
}

// envelope is the response wrapper returned by every API endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "trafficadmin-cli",
		Short:         "Traffic administration CLI tool",
		Long:          `A command line interface for querying the traffic administration API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the traffic administration API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("TRAFFICADMIN_TOKEN"), "Session token (defaults to $TRAFFICADMIN_TOKEN)")

	rootCmd.AddCommand(sessionCmd(opts), meCmd(opts), recordsCmd(opts), auditCmd(opts))

	return rootCmd
}

func sessionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "open <wallet-address>",
		Short: "Open a session for a wallet address and print its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"wallet_address": args[0]})

			var session struct {
				Token      string    `json:"token"`
				ExpiresAt  time.Time `json:"expires_at"`
				Identity   string    `json:"identity"`
				Permission struct {
					Role          string `json:"role"`
					LocationScope string `json:"locationScope"`
				} `json:"permission"`
			}
			if err := opts.do(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body), &session); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identity: %s\n", session.Identity)
			fmt.Fprintf(out, "Role:     %s (%s)\n", session.Permission.Role, session.Permission.LocationScope)
			fmt.Fprintf(out, "Expires:  %s\n", session.ExpiresAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Token:    %s\n", session.Token)
			return nil
		},
	})

	return cmd
}

func meCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show what the current session may access",
	}

	for _, sub := range []string{"permission", "menu", "profile"} {
		path := "/api/v1/me/" + sub
		cmd.AddCommand(&cobra.Command{
			Use:   sub,
			Short: "Show the caller's " + sub,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var data json.RawMessage
				if err := opts.do(http.MethodGet, path, nil, &data); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), data)
			},
		})
	}

	return cmd
}

func recordsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Query licenses, vehicles, violations and authorities",
	}

	var (
		page      int
		limit     int
		sortBy    string
		sortOrder string
		search    string
		filters   []string
		asJSON    bool
	)

	listCmd := &cobra.Command{
		Use:       "list <entity>",
		Short:     "List one page of records",
		Args:      entityArgs,
		ValidArgs: entities,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if page > 0 {
				q.Set("page", fmt.Sprint(page))
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}
			if sortBy != "" {
				q.Set("sortBy", sortBy)
			}
			if sortOrder != "" {
				q.Set("sortOrder", sortOrder)
			}
			if search != "" {
				q.Set("search", search)
			}
			for _, f := range filters {
				key, value, ok := strings.Cut(f, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid filter %q: want key=value", f)
				}
				q.Set(key, value)
			}

			path := "/api/v1/" + args[0]
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result struct {
				Items      []map[string]any `json:"items"`
				Pagination struct {
					Page       int `json:"page"`
					Limit      int `json:"limit"`
					Total      int `json:"total"`
					TotalPages int `json:"totalPages"`
				} `json:"pagination"`
			}
			if err := opts.do(http.MethodGet, path, nil, &result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tCITY\tSUMMARY")
			for _, item := range result.Items {
				fmt.Fprintf(tw, "%v\t%v\t%s\t%s\n", item["id"], item["status"], cityOf(item), truncate(summary(args[0], item), 40))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d/%d, %d total\n",
				result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
			return nil
		},
	}
	listCmd.Flags().IntVar(&page, "page", 0, "Page number (default 1)")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Page size (default 10, max 100)")
	listCmd.Flags().StringVar(&sortBy, "sort-by", "", "Field to sort by")
	listCmd.Flags().StringVar(&sortOrder, "sort-order", "", "asc or desc")
	listCmd.Flags().StringVar(&search, "search", "", "Case-insensitive search term")
	listCmd.Flags().StringArrayVar(&filters, "filter", nil, "Exact-match filter key=value (repeatable)")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	statsCmd := &cobra.Command{
		Use:       "stats <entity>",
		Short:     "Show record counters for the caller's scope",
		Args:      entityArgs,
		ValidArgs: entities,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data json.RawMessage
			if err := opts.do(http.MethodGet, "/api/v1/"+args[0]+"/stats", nil, &data); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Show a single record",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}
			return entityArgs(cmd, args[:1])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var data json.RawMessage
			if err := opts.do(http.MethodGet, "/api/v1/"+args[0]+"/"+url.PathEscape(args[1]), nil, &data); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}

	cmd.AddCommand(listCmd, statsCmd, getCmd)
	return cmd
}

func auditCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit trail operations",
	}

	var (
		resourceType string
		limit        int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries (requires settings access)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if resourceType != "" {
				q.Set("resourceType", resourceType)
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}

			path := "/api/v1/audit-logs"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var logs []struct {
				ID         string    `json:"id"`
				Identity   string    `json:"identity"`
				Action     string    `json:"action"`
				ResourceID string    `json:"resourceId"`
				Status     string    `json:"status"`
				CreatedAt  time.Time `json:"createdAt"`
			}
			if err := opts.do(http.MethodGet, path, nil, &logs); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tRESOURCE\tSTATUS\tIDENTITY")
			for _, l := range logs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					l.CreatedAt.Format(time.RFC3339), l.Action, l.ResourceID, l.Status, truncate(l.Identity, 14))
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&resourceType, "resource", "", "Only entries for this resource")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries (default 50)")

	cmd.AddCommand(listCmd)
	return cmd
}

func entityArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	for _, e := range entities {
		if args[0] == e {
			return nil
		}
	}
	return fmt.Errorf("unknown entity %q: want one of %s", args[0], strings.Join(entities, ", "))
}

// do sends a request and decodes the envelope's data into out.
func (o *options) do(method, path string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, strings.TrimRight(o.baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func summary(entity string, item map[string]any) string {
	var fields []string
	switch entity {
	case "licenses":
		fields = []string{"licenseNumber", "holderName"}
	case "vehicles":
		fields = []string{"plateNumber", "ownerName"}
	case "violations":
		fields = []string{"violationType", "plateNumber"}
	case "authorities":
		fields = []string{"code", "name"}
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if v, ok := item[f]; ok && v != nil {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " ")
}

func cityOf(item map[string]any) string {
	if city, ok := item["city"].(string); ok {
		return city
	}
	return "-"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
