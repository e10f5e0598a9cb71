package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_monorga() {
    local cur prev words cword
    _init_completion || return

    local commands="init show add edit move rm passwd export import diff status compact keyring help completion"
    local columns="todo doing done"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$prev" in
        -s|--status)
            COMPREPLY=($(compgen -W "$columns" -- "$cur"))
            return
            ;;
    esac

    case "$cmd" in
        show)
            COMPREPLY=($(compgen -W "-s --status --json" -- "$cur"))
            ;;
        add|edit)
            COMPREPLY=($(compgen -W "-t -d -s --status --due" -- "$cur"))
            ;;
        move)
            if [[ $cword -eq 3 ]]; then
                COMPREPLY=($(compgen -W "$columns" -- "$cur"))
            fi
            ;;
        export)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--force" -- "$cur"))
            else
                _filedir
            fi
            ;;
        import)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--yes" -- "$cur"))
            else
                _filedir json
            fi
            ;;
        diff)
            _filedir json
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _monorga monorga
`

const zshCompletion = `#compdef monorga

_monorga() {
    local -a commands columns
    commands=(
        'init:Create an encrypted board vault'
        'show:Show the board'
        'add:Add a card'
        'edit:Edit a card'
        'move:Move a card to another column'
        'rm:Remove cards'
        'passwd:Change vault password'
        'export:Write an encrypted backup file'
        'import:Restore the board from a backup file'
        'diff:Compare a backup file with the vault'
        'status:Show vault status'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )
    columns=(todo doing done)

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'monorga commands' commands
            ;;
        args)
            case "${words[2]}" in
                show)
                    _arguments \
                        '(-s --status)'{-s,--status}'[Only this column]:column:(todo doing done)' \
                        '--json[Print JSON]'
                    ;;
                add|edit)
                    _arguments \
                        '-t[Title]:title:' \
                        '-d[Description]:description:' \
                        '(-s --status)'{-s,--status}'[Column]:column:(todo doing done)' \
                        '--due[Due date (YYYY-MM-DD)]:date:'
                    ;;
                move)
                    _arguments '2:card id:' '3:column:(todo doing done)'
                    ;;
                export)
                    _arguments '--force[Overwrite an existing file]' '*:file:_files'
                    ;;
                import)
                    _arguments '--yes[Do not ask for confirmation]' '*:file:_files'
                    ;;
                diff)
                    _arguments '*:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'monorga commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_monorga "$@"
`

const fishCompletion = `# monorga fish completions

set -l commands init show add edit move rm passwd export import diff status compact keyring help completion

complete -c monorga -f

# Commands
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create an encrypted board vault'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a show -d 'Show the board'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add a card'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a edit -d 'Edit a card'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a move -d 'Move a card'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove cards'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change vault password'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a export -d 'Write an encrypted backup'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a import -d 'Restore from a backup'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare a backup with the vault'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c monorga -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# show flags
complete -c monorga -n "__fish_seen_subcommand_from show" -s s -l status -xa "todo doing done" -d 'Only this column'
complete -c monorga -n "__fish_seen_subcommand_from show" -l json -d 'Print JSON'

# add and edit flags
complete -c monorga -n "__fish_seen_subcommand_from add edit" -s t -x -d 'Title'
complete -c monorga -n "__fish_seen_subcommand_from add edit" -s d -x -d 'Description'
complete -c monorga -n "__fish_seen_subcommand_from add edit" -s s -l status -xa "todo doing done" -d 'Column'
complete -c monorga -n "__fish_seen_subcommand_from add edit" -l due -x -d 'Due date (YYYY-MM-DD)'

# backup files
complete -c monorga -n "__fish_seen_subcommand_from export" -l force -d 'Overwrite an existing file'
complete -c monorga -n "__fish_seen_subcommand_from import" -l yes -d 'Do not ask for confirmation'
complete -c monorga -n "__fish_seen_subcommand_from export import diff" -F

# keyring subcommands
complete -c monorga -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c monorga -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c monorga -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
