// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies one cataloged issue.
type Id int

const (
	UnknownUtilityId Id = iota + 1
	ToolboxConfigId
	ConfigLoadFailedId
	ConfigInvalidId
	RecursionLimitId
	InstallFailedId
)

type (
	// MarkdownMsg is the remediation guide in Markdown source form.
	MarkdownMsg string

	// HttpLink is a URL shown in the rendered "See also" section.
	HttpLink string
)

// Issue is one cataloged failure with its remediation guide.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink // gobox documentation, when one exists for the issue
	extLinks []HttpLink // external references
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render produces the terminal-ready guide in the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	unknownUtilityIssue = &Issue{
		id: UnknownUtilityId,
		mdMsg: `
# Unknown utility!

The name you invoked is not registered in this toolbox.

## Things you can try:
- List every registered utility:
~~~
$ gobox list
~~~

- Check for typos in the utility name
- When invoking through a symlink, the link's basename (minus a
  stripped suffix such as ` + "`.exe`" + `) must match a registered name:
~~~
$ ln -s $(command -v gobox) ~/bin/echo
$ ~/bin/echo hello
~~~`,
	}

	toolboxConfigIssue = &Issue{
		id: ToolboxConfigId,
		mdMsg: `
# Toolbox construction failed!

The applet set this binary was configured with is invalid, so no
toolbox could be built.

## Common causes:
- Every applet disabled in the configuration (an empty toolbox)
- A negative dispatch threshold or recursion limit
- For embedders: two applets registered under one name, or a
  descriptor with an empty name or nil factory

## Things you can try:
- Check the ` + "`disabled`" + ` list in your configuration:
~~~cue
disabled: ["shd"]  // must leave at least one applet enabled
~~~

- Remove the configuration file to fall back to defaults`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not read the gobox configuration file.

## Configuration file locations (first match wins):
1. $GOBOX_CONFIG, when set
2. <user config dir>/gobox/config.cue (e.g. ~/.config/gobox/config.cue)

## Things you can try:
- Check the file exists and is readable
- Remove the file to run on defaults; every setting also has a
  GOBOX_* environment override:
~~~
$ GOBOX_LOG_LEVEL=debug gobox echo hi
~~~`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Configuration rejected!

The configuration file was read but does not satisfy the gobox
schema.

## Common issues:
- Invalid CUE syntax (missing quotes, braces)
- An unknown field name
- A value outside its allowed range (negative depth, unknown
  strategy or log level)

## Things you can try:
- Check the error message above for the offending field
- Compare against a minimal valid configuration:
~~~cue
strategy:         "mixed"   // "mixed" | "direct" | "indirect"
direct_threshold: 4
max_depth:        64
log_level:        "warn"    // "debug" | "info" | "warn" | "error"
disabled:         []
~~~`,
	}

	recursionLimitIssue = &Issue{
		id: RecursionLimitId,
		mdMsg: `
# Recursion limit reached!

A nested invocation chain went deeper than the configured bound.
Nested calls are ordinary in-process call frames, so the chain is cut
before it can exhaust the stack.

## Common causes:
- A script that invokes itself, directly or through another applet:
~~~
$ gobox sh -c 'sh -c "sh -c ..."'
~~~

## Things you can try:
- Break the self-invocation out of the script
- Raise the bound if the nesting is intentional:
~~~cue
max_depth: 128
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed!

Could not create the utility symlinks.

## Things you can try:
- Make sure the target directory exists and is writable:
~~~
$ mkdir -p ~/bin && gobox install ~/bin
~~~

- A name that already exists in the target is left alone unless it is
  a symlink and you pass the force flag:
~~~
$ gobox install -force ~/bin
~~~`,
	}

	issues = map[Id]*Issue{
		unknownUtilityIssue.Id():   unknownUtilityIssue,
		toolboxConfigIssue.Id():    toolboxConfigIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		configInvalidIssue.Id():    configInvalidIssue,
		recursionLimitIssue.Id():   recursionLimitIssue,
		installFailedIssue.Id():    installFailedIssue,
	}
)

// Values returns every cataloged issue, unordered.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the issue for id, or nil for an unknown id.
func Get(id Id) *Issue {
	return issues[id]
}
