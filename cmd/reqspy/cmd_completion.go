package main

import (
	"flag"
	"fmt"
	"os"
)

func completionCmd() {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqspy completion <bash|zsh|fish>\n\n")
		fmt.Fprintf(os.Stderr, "Generate shell completion scripts.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  reqspy completion bash > /usr/local/etc/bash_completion.d/reqspy\n")
		fmt.Fprintf(os.Stderr, "  reqspy completion zsh > \"${fpath[1]}/_reqspy\"\n")
		fmt.Fprintf(os.Stderr, "  reqspy completion fish > ~/.config/fish/completions/reqspy.fish\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: shell name is required (bash, zsh, or fish)\n\n")
		fs.Usage()
		os.Exit(1)
	}

	script, ok := completionScript(fs.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unsupported shell %q (use bash, zsh, or fish)\n", fs.Arg(0))
		os.Exit(1)
	}
	fmt.Print(script)
}

func completionScript(shell string) (string, bool) {
	switch shell {
	case "bash":
		return generateBashCompletion(), true
	case "zsh":
		return generateZshCompletion(), true
	case "fish":
		return generateFishCompletion(), true
	}
	return "", false
}

func generateBashCompletion() string {
	return `# bash completion for reqspy                             -*- shell-script -*-

_reqspy() {
    local cur prev words cword
    _init_completion || return

    local commands="serve parse routes journal init completion version help"

    local serve_flags="--port --latency --error-rate --cors-origin --journal --output --tui --no-color --verbose"
    local parse_flags="--output --copy --no-color"
    local routes_flags="--output --no-color"
    local init_flags="--name --output --base-url"
    local journal_flags="--db --method --path --route --since --limit --output --clear --no-color"

    local output_formats="text json"
    local methods="GET POST PUT PATCH DELETE HEAD OPTIONS"
    local shells="bash zsh fish"

    if [[ ${cword} -eq 1 ]]; then
        COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
        return
    fi

    local command="${words[1]}"

    case "${prev}" in
        --output)
            COMPREPLY=($(compgen -W "${output_formats}" -- "${cur}"))
            return
            ;;
        --method)
            COMPREPLY=($(compgen -W "${methods}" -- "${cur}"))
            return
            ;;
        --journal|--db)
            _filedir
            return
            ;;
        --port|--latency|--error-rate|--cors-origin|--path|--route|--since|--limit|--name|--base-url)
            return
            ;;
    esac

    case "${command}" in
        serve)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${serve_flags}" -- "${cur}"))
            else
                COMPREPLY=($(compgen -f -X '!*.reqspy.yaml' -- "${cur}"))
                _filedir -d
            fi
            ;;
        routes)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${routes_flags}" -- "${cur}"))
            else
                COMPREPLY=($(compgen -f -X '!*.reqspy.yaml' -- "${cur}"))
                _filedir -d
            fi
            ;;
        parse)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${parse_flags}" -- "${cur}"))
            fi
            ;;
        journal)
            COMPREPLY=($(compgen -W "${journal_flags}" -- "${cur}"))
            ;;
        init)
            COMPREPLY=($(compgen -W "${init_flags}" -- "${cur}"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "${shells}" -- "${cur}"))
            ;;
    esac
}

complete -F _reqspy reqspy
`
}

func generateZshCompletion() string {
	return `#compdef reqspy

# zsh completion for reqspy

_reqspy() {
    local -a commands
    commands=(
        'serve:Serve a collection as a mock server and print matched requests'
        'parse:Show how a query string is coerced'
        'routes:List the routes a collection serves'
        'journal:Inspect recorded requests'
        'init:Create a starter collection'
        'completion:Generate shell completion scripts'
        'version:Print version information'
        'help:Show help message'
    )

    _arguments -C \
        '1:command:->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe -t commands 'reqspy commands' commands
            ;;
        args)
            case $words[1] in
                serve)
                    _arguments \
                        '--port[Port to listen on]:port:' \
                        '--latency[Artificial response latency]:duration:' \
                        '--error-rate[Random error rate]:rate:' \
                        '--cors-origin[Access-Control-Allow-Origin header value]:origin:' \
                        '--journal[Record matched requests to this SQLite file]:file:_files' \
                        '--output[Output format]:format:(text json)' \
                        '--tui[Show a live call log]' \
                        '--no-color[Disable colored output]' \
                        '--verbose[Enable debug logging]' \
                        '*:collection file:_files -g "*.reqspy.yaml"'
                    ;;
                parse)
                    _arguments \
                        '--output[Output format]:format:(text json)' \
                        '--copy[Copy the JSON mapping to the clipboard]' \
                        '--no-color[Disable colored output]' \
                        '1:query:'
                    ;;
                routes)
                    _arguments \
                        '--output[Output format]:format:(text json)' \
                        '--no-color[Disable colored output]' \
                        '*:collection file:_files -g "*.reqspy.yaml"'
                    ;;
                journal)
                    _arguments \
                        '--db[Journal SQLite file]:file:_files' \
                        '--method[HTTP method]:method:(GET POST PUT PATCH DELETE HEAD OPTIONS)' \
                        '--path[Pathname substring]:path:' \
                        '--route[Route name]:route:' \
                        '--since[Only newer than]:duration:' \
                        '--limit[Maximum number of entries]:limit:' \
                        '--output[Output format]:format:(text json)' \
                        '--clear[Delete all journal entries]' \
                        '--no-color[Disable colored output]'
                    ;;
                init)
                    _arguments \
                        '--name[Collection name]:name:' \
                        '--output[Output file path]:output file:_files -g "*.reqspy.yaml"' \
                        '--base-url[Value of the base_url variable]:url:'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_reqspy "$@"
`
}

func generateFishCompletion() string {
	return `# fish completion for reqspy

complete -c reqspy -f

complete -c reqspy -n '__fish_use_subcommand' -a serve -d 'Serve a collection as a mock server and print matched requests'
complete -c reqspy -n '__fish_use_subcommand' -a parse -d 'Show how a query string is coerced'
complete -c reqspy -n '__fish_use_subcommand' -a routes -d 'List the routes a collection serves'
complete -c reqspy -n '__fish_use_subcommand' -a journal -d 'Inspect recorded requests'
complete -c reqspy -n '__fish_use_subcommand' -a init -d 'Create a starter collection'
complete -c reqspy -n '__fish_use_subcommand' -a completion -d 'Generate shell completion scripts'
complete -c reqspy -n '__fish_use_subcommand' -a version -d 'Print version information'
complete -c reqspy -n '__fish_use_subcommand' -a help -d 'Show help message'

# serve
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l port -d 'Port to listen on' -r
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l latency -d 'Artificial response latency' -r
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l error-rate -d 'Random error rate' -r
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l cors-origin -d 'Access-Control-Allow-Origin header value' -r
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l journal -d 'Record matched requests to this SQLite file' -rF
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l output -d 'Output format' -ra 'text json'
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l tui -d 'Show a live call log'
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l no-color -d 'Disable colored output'
complete -c reqspy -n '__fish_seen_subcommand_from serve' -l verbose -d 'Enable debug logging'
complete -c reqspy -n '__fish_seen_subcommand_from serve' -F

# parse
complete -c reqspy -n '__fish_seen_subcommand_from parse' -l output -d 'Output format' -ra 'text json'
complete -c reqspy -n '__fish_seen_subcommand_from parse' -l copy -d 'Copy the JSON mapping to the clipboard'
complete -c reqspy -n '__fish_seen_subcommand_from parse' -l no-color -d 'Disable colored output'

# routes
complete -c reqspy -n '__fish_seen_subcommand_from routes' -l output -d 'Output format' -ra 'text json'
complete -c reqspy -n '__fish_seen_subcommand_from routes' -l no-color -d 'Disable colored output'
complete -c reqspy -n '__fish_seen_subcommand_from routes' -F

# journal
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l db -d 'Journal SQLite file' -rF
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l method -d 'HTTP method' -ra 'GET POST PUT PATCH DELETE HEAD OPTIONS'
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l path -d 'Pathname substring' -r
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l route -d 'Route name' -r
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l since -d 'Only newer than' -r
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l limit -d 'Maximum number of entries' -r
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l output -d 'Output format' -ra 'text json'
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l clear -d 'Delete all journal entries'
complete -c reqspy -n '__fish_seen_subcommand_from journal' -l no-color -d 'Disable colored output'

# init
complete -c reqspy -n '__fish_seen_subcommand_from init' -l name -d 'Collection name' -r
complete -c reqspy -n '__fish_seen_subcommand_from init' -l output -d 'Output file path' -rF
complete -c reqspy -n '__fish_seen_subcommand_from init' -l base-url -d 'Value of the base_url variable' -r

# completion
complete -c reqspy -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish' -d 'Shell type'
`
}
