package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ambrosios/monorga/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
		return
	case "completion":
		runCompletion(os.Args[2:])
		return
	}

	rt := cmd.NewRuntime()
	args := os.Args[2:]

	switch os.Args[1] {
	case "init":
		parseFlags(flag.NewFlagSet("init", flag.ExitOnError), args)
		rt.Init(ctx)
	case "show", "ls":
		runShow(ctx, rt, args)
	case "add":
		runAdd(ctx, rt, args)
	case "edit":
		runEdit(ctx, rt, args)
	case "move", "mv":
		runMove(ctx, rt, args)
	case "rm":
		rt.Remove(ctx, parseFlags(flag.NewFlagSet("rm", flag.ExitOnError), args))
	case "passwd":
		parseFlags(flag.NewFlagSet("passwd", flag.ExitOnError), args)
		rt.Passwd(ctx)
	case "export":
		runExport(ctx, rt, args)
	case "import":
		runImport(ctx, rt, args)
	case "diff":
		runDiff(ctx, rt, args)
	case "status":
		parseFlags(flag.NewFlagSet("status", flag.ExitOnError), args)
		rt.Status(ctx)
	case "compact":
		parseFlags(flag.NewFlagSet("compact", flag.ExitOnError), args)
		rt.Compact(ctx)
	case "keyring":
		runKeyring(ctx, rt, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseFlags parses args allowing flags after positional arguments and
// returns the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// cardFlags registers the card field flags and returns a function that
// reports only the flags that were set.
func cardFlags(fs *flag.FlagSet) func() cmd.CardFields {
	title := fs.String("t", "", "Card title")
	description := fs.String("d", "", "Card description")
	status := fs.String("s", "", "Column: todo, doing or done")
	fs.StringVar(status, "status", "", "Column: todo, doing or done")
	due := fs.String("due", "", "Due date (YYYY-MM-DD), empty to clear")

	return func() cmd.CardFields {
		var f cmd.CardFields
		fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "t":
				f.Title = title
			case "d":
				f.Description = description
			case "s", "status":
				f.Status = status
			case "due":
				f.DueDate = due
			}
		})
		return f
	}
}

func runShow(ctx context.Context, rt *cmd.Runtime, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	column := fs.String("s", "", "Only show this column")
	fs.StringVar(column, "status", "", "Only show this column")
	asJSON := fs.Bool("json", false, "Print the board as JSON")
	parseFlags(fs, args)

	rt.Show(ctx, *column, *asJSON)
}

func runAdd(ctx context.Context, rt *cmd.Runtime, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fields := cardFlags(fs)
	positional := parseFlags(fs, args)

	f := fields()
	title := strings.Join(positional, " ")
	if f.Title != nil {
		title = *f.Title
	}
	if strings.TrimSpace(title) == "" {
		fmt.Fprintf(os.Stderr, "Error: add requires a title\n")
		fmt.Fprintf(os.Stderr, "Usage: monorga add <title> [-d description] [-s status] [--due YYYY-MM-DD]\n")
		os.Exit(1)
	}

	rt.Add(ctx, title, f)
}

func runEdit(ctx context.Context, rt *cmd.Runtime, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	fields := cardFlags(fs)
	positional := parseFlags(fs, args)

	if len(positional) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: monorga edit <id> [-t title] [-d description] [-s status] [--due date]\n")
		os.Exit(1)
	}

	rt.Edit(ctx, positional[0], fields())
}

func runMove(ctx context.Context, rt *cmd.Runtime, args []string) {
	positional := parseFlags(flag.NewFlagSet("move", flag.ExitOnError), args)
	if len(positional) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: monorga move <id> <todo|doing|done>\n")
		os.Exit(1)
	}

	rt.Move(ctx, positional[0], positional[1])
}

func runExport(ctx context.Context, rt *cmd.Runtime, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing backup file")
	positional := parseFlags(fs, args)
	if len(positional) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: monorga export [--force] <file>\n")
		os.Exit(1)
	}

	rt.Export(ctx, positional[0], *force)
}

func runImport(ctx context.Context, rt *cmd.Runtime, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Replace the board without asking")
	positional := parseFlags(fs, args)
	if len(positional) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: monorga import [--yes] <file>\n")
		os.Exit(1)
	}

	rt.Import(ctx, positional[0], *yes)
}

func runDiff(ctx context.Context, rt *cmd.Runtime, args []string) {
	positional := parseFlags(flag.NewFlagSet("diff", flag.ExitOnError), args)
	if len(positional) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: monorga diff <file>\n")
		os.Exit(1)
	}

	rt.Diff(ctx, positional[0])
}

func runKeyring(ctx context.Context, rt *cmd.Runtime, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: monorga keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		rt.KeyringSave(ctx)
	case "delete":
		rt.KeyringDelete()
	case "status":
		rt.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: monorga keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: monorga completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("monorga - Password-protected card board")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  monorga <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create an encrypted board vault")
	fmt.Println("  show, ls    Show the board")
	fmt.Println("  add         Add a card")
	fmt.Println("  edit        Edit a card")
	fmt.Println("  move, mv    Move a card to another column")
	fmt.Println("  rm          Remove cards")
	fmt.Println("  passwd      Change vault password")
	fmt.Println("  export      Write an encrypted backup file")
	fmt.Println("  import      Restore the board from a backup file")
	fmt.Println("  diff        Compare a backup file with the vault")
	fmt.Println("  status      Show vault status")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage password in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  monorga init                          # Create new vault")
	fmt.Println("  monorga add \"Write report\" --due 2025-01-31")
	fmt.Println("  monorga move 3f1c doing               # Move card by id prefix")
	fmt.Println("  monorga export backup.json            # Encrypted backup")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  MONORGA_VAULT      Vault file (default .monorga)")
	fmt.Println("  MONORGA_PASSWORD   Password for non-interactive use")
	fmt.Println("  MONORGA_LOG_LEVEL  Log level: debug, info, warn, error")
	fmt.Println()
	fmt.Println("Use 'monorga help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("monorga init")
		fmt.Println()
		fmt.Println("Creates the vault file with an empty board.")
		fmt.Println("Prompts twice for a password of at least 8 characters.")
		fmt.Println("The password is not stored anywhere unless you save it to the keyring.")
		fmt.Println("There is no way to recover the board without it.")
	case "show", "ls":
		fmt.Println("monorga show [-s|--status <column>] [--json]")
		fmt.Println()
		fmt.Println("Decrypts and prints the board, column by column.")
		fmt.Println("Due dates that are past or within two days are flagged.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -s, --status   Only show this column (todo, doing, done)")
		fmt.Println("  --json         Print the board as JSON")
	case "add":
		fmt.Println("monorga add <title> [-d description] [-s status] [--due YYYY-MM-DD]")
		fmt.Println()
		fmt.Println("Adds a card. New cards go to 'todo' unless a status is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  monorga add \"Write report\"")
		fmt.Println("  monorga add \"Deploy\" -s doing --due 2025-01-31")
	case "edit":
		fmt.Println("monorga edit <id> [-t title] [-d description] [-s status] [--due date]")
		fmt.Println()
		fmt.Println("Changes only the given fields. '--due \"\"' clears the due date.")
		fmt.Println("Cards can be referred to by any unique prefix of their id.")
	case "move", "mv":
		fmt.Println("monorga move <id> <todo|doing|done>")
		fmt.Println()
		fmt.Println("Moves a card to another column.")
	case "rm":
		fmt.Println("monorga rm <id> [id...]")
		fmt.Println()
		fmt.Println("Removes cards from the board.")
	case "passwd":
		fmt.Println("monorga passwd")
		fmt.Println()
		fmt.Println("Changes the vault password.")
		fmt.Println("Requires both the current and new passwords.")
		fmt.Println("Re-encrypts the board and replaces the credential in one step.")
	case "export":
		fmt.Println("monorga export [--force] <file>")
		fmt.Println()
		fmt.Println("Writes the encrypted board to a backup file in the current directory.")
		fmt.Println("The backup stays encrypted under the vault password at the time of export.")
		fmt.Println("Does not require a password.")
	case "import":
		fmt.Println("monorga import [--yes] <file>")
		fmt.Println()
		fmt.Println("Replaces the board with a backup after showing a summary.")
		fmt.Println("Tries the vault password first, then asks for the backup password.")
	case "diff":
		fmt.Println("monorga diff <file>")
		fmt.Println()
		fmt.Println("Shows the differences between the vault and a backup file.")
	case "status":
		fmt.Println("monorga status")
		fmt.Println()
		fmt.Println("Shows the vault file, encryption parameters, keyring and git state.")
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("monorga compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'passwd'.")
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("monorga keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the vault password in the OS keyring.")
		fmt.Println("Set MONORGA_KEYRING=false to never read or offer the keyring.")
	case "completion":
		fmt.Println("monorga completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(monorga completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(monorga completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  monorga completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
