package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/stream"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL      string
	sessionFile string
	asJSON      bool
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".newslyctl-session"
	}
	return filepath.Join(home, ".newslyctl-session")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	apiURL := "http://localhost:5000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	root := &cobra.Command{
		Use:   "newslyctl",
		Short: "Command-line client for the Newsly backend",
		Long: `newslyctl talks to a running Newsly server: sign in, browse headlines,
look up epaper PDFs and follow the live headlines stream.

The session cookie is stored in --session between invocations.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", apiURL, "Backend base URL (env API_URL)")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session", defaultSessionFile(), "File holding the session cookie")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON")

	client := func() *APIClient {
		return NewAPIClient(opts.apiURL, opts.sessionFile)
	}

	root.AddCommand(
		newSignupCmd(opts, client),
		newSigninCmd(opts, client),
		newStatusCmd(opts, client),
		newLogoutCmd(client),
		newHeadlinesCmd(opts, client),
		newSearchCmd(opts, client),
		newCategoryCmd(opts, client),
		newRegionalCmd(opts, client),
		newEpapersCmd(opts, client),
		newPDFCmd(opts, client),
		newStreamCmd(opts, client),
	)

	return root
}

func newSignupCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := client().Signup(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newSigninCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().Signin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s <%s>\n", resp.Message, resp.User.Name, resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newStatusCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the stored session is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := client().Status(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			if !status.Authenticated || status.User == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", status.User.Name, status.User.Email)
			return nil
		},
	}
}

func newLogoutCmd(client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newHeadlinesCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "headlines",
		Short: "Show top headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Headlines(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printArticles(cmd.OutOrStdout(), result.Articles, result.Error)
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search news",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printArticles(cmd.OutOrStdout(), result.Articles, result.Error)
			return nil
		},
	}
}

func newCategoryCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "category <topic>",
		Short: "Show headlines for a topic (business, sports, technology, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Category(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Topic: %s\n", result.Topic)
			printArticles(cmd.OutOrStdout(), result.Articles, result.Error)
			return nil
		},
	}
}

func newRegionalCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "regional <state>",
		Short: "Show regional news in the state's language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().Regional(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Region: %s (lang %s)\n", result.Location, result.StateParams.Lang)
			printArticles(cmd.OutOrStdout(), result.Articles, result.Error)
			return nil
		},
	}
}

func newEpapersCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "epapers",
		Short: "List the epaper catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := client().Epapers(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), catalogue)
			}
			ids := make([]string, 0, len(catalogue))
			for id := range catalogue {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				p := catalogue[id]
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-20s %s\n", id, p.Name, p.Language)
			}
			return nil
		},
	}
}

func newPDFCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <paper-id>",
		Short: "Find today's PDF link for an epaper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().PDF(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if resp.PDFURL == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No PDF link found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), *resp.PDFURL)
			return nil
		},
	}
}

func newStreamCmd(opts *rootOptions, client func() *APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "stream",
		Short: "Follow live headlines until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return client().Stream(cmd.Context(), func(ev SSEEvent) error {
				if opts.asJSON {
					fmt.Fprintf(out, "%s\n", ev.Data)
					return nil
				}
				switch ev.Type {
				case stream.EventHeadlines:
					var p stream.HeadlinesPayload
					if err := json.Unmarshal(ev.Data, &p); err != nil {
						return err
					}
					fmt.Fprintf(out, "--- %s ---\n", time.UnixMilli(p.TS).Format(time.Kitchen))
					printArticles(out, p.Articles, "")
				case stream.EventError:
					var p stream.ErrorPayload
					if err := json.Unmarshal(ev.Data, &p); err != nil {
						return err
					}
					fmt.Fprintf(out, "! %s: %s\n", p.Message, p.Detail)
				}
				return nil
			})
		},
	}
}

func printArticles(w io.Writer, articles []domain.Article, note string) {
	if note != "" {
		fmt.Fprintf(w, "(%s)\n", note)
	}
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles")
		return
	}
	for i, a := range articles {
		fmt.Fprintf(w, "%2d. %s\n    %s | %s\n", i+1, a.Title, a.Source.Name, a.URL)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
