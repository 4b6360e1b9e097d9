package catalog

// The static tables encode the curated per-toolkit mappings. Ordering
// matters: entries with read/fetch verbs precede bare-noun entries so a
// "Fetch Emails" step never lands on a send tool.

func staticActions() map[string][]StaticEntry {
	return map[string][]StaticEntry{
		"gmail": {
			{Keywords: []string{"fetch email", "read email", "get email", "fetch emails", "read emails", "list emails", "check inbox"}, Slug: "GMAIL_FETCH_EMAILS"},
			{Keywords: []string{"reply"}, Slug: "GMAIL_REPLY_TO_THREAD"},
			{Keywords: []string{"draft"}, Slug: "GMAIL_CREATE_EMAIL_DRAFT"},
			{Keywords: []string{"label"}, Slug: "GMAIL_ADD_LABEL_TO_EMAIL"},
			{Keywords: []string{"send", "email", "mail"}, Slug: "GMAIL_SEND_EMAIL"},
		},
		"slack": {
			{Keywords: []string{"fetch message", "read message", "search message", "list messages"}, Slug: "SLACK_SEARCH_MESSAGES"},
			{Keywords: []string{"create channel"}, Slug: "SLACK_CREATE_CHANNEL"},
			{Keywords: []string{"list channels"}, Slug: "SLACK_LIST_CHANNELS"},
			{Keywords: []string{"send", "post", "message", "notify", "alert"}, Slug: "SLACK_SEND_MESSAGE"},
		},
		"googlesheets": {
			{Keywords: []string{"read", "fetch", "get rows", "lookup"}, Slug: "GOOGLESHEETS_BATCH_GET"},
			{Keywords: []string{"create spreadsheet", "new spreadsheet"}, Slug: "GOOGLESHEETS_CREATE_SPREADSHEET"},
			{Keywords: []string{"add row", "append", "insert", "save", "log", "record", "track", "write"}, Slug: "GOOGLESHEETS_ADD_ROW"},
			{Keywords: []string{"update"}, Slug: "GOOGLESHEETS_BATCH_UPDATE"},
		},
		"googledocs": {
			{Keywords: []string{"read", "fetch", "get"}, Slug: "GOOGLEDOCS_GET_DOCUMENT_BY_ID"},
			{Keywords: []string{"create", "new", "write"}, Slug: "GOOGLEDOCS_CREATE_DOCUMENT"},
			{Keywords: []string{"update", "append", "edit"}, Slug: "GOOGLEDOCS_UPDATE_EXISTING_DOCUMENT"},
		},
		"googledrive": {
			{Keywords: []string{"list", "find", "search"}, Slug: "GOOGLEDRIVE_LIST_FOLDER"},
			{Keywords: []string{"download"}, Slug: "GOOGLEDRIVE_DOWNLOAD_FILE"},
			{Keywords: []string{"upload", "save", "store", "backup"}, Slug: "GOOGLEDRIVE_UPLOAD_FILE"},
			{Keywords: []string{"folder"}, Slug: "GOOGLEDRIVE_CREATE_FOLDER"},
		},
		"googlecalendar": {
			{Keywords: []string{"list", "fetch", "upcoming", "find"}, Slug: "GOOGLECALENDAR_FIND_EVENT"},
			{Keywords: []string{"delete", "cancel"}, Slug: "GOOGLECALENDAR_DELETE_EVENT"},
			{Keywords: []string{"create", "schedule", "add", "book", "event", "meeting"}, Slug: "GOOGLECALENDAR_CREATE_EVENT"},
		},
		"github": {
			{Keywords: []string{"fetch issue", "list issue", "get issue", "fetch issues", "list issues", "read issues"}, Slug: "GITHUB_LIST_ISSUES"},
			{Keywords: []string{"create", "open", "file", "report"}, Slug: "GITHUB_CREATE_AN_ISSUE"},
			{Keywords: []string{"pull request", "list prs", "fetch prs"}, Slug: "GITHUB_LIST_PULL_REQUESTS"},
			{Keywords: []string{"star"}, Slug: "GITHUB_STAR_A_REPOSITORY"},
			{Keywords: []string{"issue"}, Slug: "GITHUB_LIST_ISSUES"},
		},
		"notion": {
			{Keywords: []string{"fetch", "read", "get", "query", "search"}, Slug: "NOTION_QUERY_DATABASE"},
			{Keywords: []string{"create", "add", "new", "save", "write", "page"}, Slug: "NOTION_CREATE_PAGE"},
			{Keywords: []string{"update", "edit"}, Slug: "NOTION_UPDATE_PAGE"},
		},
		"trello": {
			{Keywords: []string{"list cards", "fetch cards", "get cards"}, Slug: "TRELLO_GET_CARDS_ON_BOARD"},
			{Keywords: []string{"move"}, Slug: "TRELLO_MOVE_CARD"},
			{Keywords: []string{"create", "add", "new", "card", "task"}, Slug: "TRELLO_CREATE_CARD"},
		},
		"airtable": {
			{Keywords: []string{"list", "fetch", "get", "read"}, Slug: "AIRTABLE_LIST_RECORDS"},
			{Keywords: []string{"create", "add", "insert", "save", "log", "record"}, Slug: "AIRTABLE_CREATE_RECORD"},
			{Keywords: []string{"update"}, Slug: "AIRTABLE_UPDATE_RECORD"},
		},
		"clickup": {
			{Keywords: []string{"list", "fetch", "get"}, Slug: "CLICKUP_GET_TASKS"},
			{Keywords: []string{"create", "add", "new", "task"}, Slug: "CLICKUP_CREATE_TASK"},
			{Keywords: []string{"update"}, Slug: "CLICKUP_UPDATE_TASK"},
		},
		"jira": {
			{Keywords: []string{"list", "fetch", "get", "search"}, Slug: "JIRA_SEARCH_ISSUES"},
			{Keywords: []string{"create", "add", "new", "ticket", "issue", "bug"}, Slug: "JIRA_CREATE_ISSUE"},
			{Keywords: []string{"update", "transition"}, Slug: "JIRA_UPDATE_ISSUE"},
		},
		"hubspot": {
			{Keywords: []string{"create contact", "add contact", "new contact"}, Slug: "HUBSPOT_CREATE_CONTACT"},
			{Keywords: []string{"deal"}, Slug: "HUBSPOT_CREATE_DEAL"},
			{Keywords: []string{"list", "fetch", "get", "contact", "lead"}, Slug: "HUBSPOT_LIST_CONTACTS"},
		},
		"discord": {
			{Keywords: []string{"send", "post", "message", "notify", "alert"}, Slug: "DISCORD_SEND_MESSAGE"},
		},
		"telegram": {
			{Keywords: []string{"send", "post", "message", "notify", "alert"}, Slug: "TELEGRAM_SEND_MESSAGE"},
		},
		"twitter": {
			{Keywords: []string{"search", "fetch", "list"}, Slug: "TWITTER_RECENT_SEARCH"},
			{Keywords: []string{"tweet", "post", "publish", "share"}, Slug: "TWITTER_CREATION_OF_A_POST"},
		},
		"linear": {
			{Keywords: []string{"list", "fetch", "get"}, Slug: "LINEAR_LIST_ISSUES"},
			{Keywords: []string{"create", "add", "new", "issue", "ticket", "bug"}, Slug: "LINEAR_CREATE_ISSUE"},
		},
		"whatsapp": {
			{Keywords: []string{"send", "message", "notify", "alert", "remind"}, Slug: "WHATSAPP_SEND_MESSAGE"},
		},
	}
}

// toolkitDefaults answers "what is this toolkit most likely asked to do"
// when a node name matched neither the static table nor any verb pattern.
func toolkitDefaults() map[string]string {
	return map[string]string{
		"gmail":          "GMAIL_SEND_EMAIL",
		"slack":          "SLACK_SEND_MESSAGE",
		"discord":        "DISCORD_SEND_MESSAGE",
		"telegram":       "TELEGRAM_SEND_MESSAGE",
		"whatsapp":       "WHATSAPP_SEND_MESSAGE",
		"googlesheets":   "GOOGLESHEETS_ADD_ROW",
		"googledocs":     "GOOGLEDOCS_CREATE_DOCUMENT",
		"googledrive":    "GOOGLEDRIVE_UPLOAD_FILE",
		"googlecalendar": "GOOGLECALENDAR_CREATE_EVENT",
		"github":         "GITHUB_LIST_ISSUES",
		"notion":         "NOTION_CREATE_PAGE",
		"trello":         "TRELLO_CREATE_CARD",
		"airtable":       "AIRTABLE_CREATE_RECORD",
		"clickup":        "CLICKUP_CREATE_TASK",
		"jira":           "JIRA_CREATE_ISSUE",
		"hubspot":        "HUBSPOT_LIST_CONTACTS",
		"twitter":        "TWITTER_CREATION_OF_A_POST",
		"linear":         "LINEAR_CREATE_ISSUE",
	}
}

// actionVerbs classifies a node name into a verb class. Read-style verbs sit
// first so "Fetch X" never classifies as SEND just because X mentions mail.
func actionVerbs() []VerbEntry {
	return []VerbEntry{
		{Verb: "FETCH", Patterns: []string{"fetch", "read", "get", "retrieve", "check"}},
		{Verb: "LIST", Patterns: []string{"list", "show all"}},
		{Verb: "SEARCH", Patterns: []string{"search", "find", "query", "lookup"}},
		{Verb: "SEND", Patterns: []string{"send", "post", "notify", "alert", "message", "reply", "forward"}},
		{Verb: "CREATE", Patterns: []string{"create", "add", "new", "make", "generate", "schedule", "insert", "log", "record", "write"}},
		{Verb: "UPDATE", Patterns: []string{"update", "edit", "modify", "change", "set"}},
		{Verb: "DELETE", Patterns: []string{"delete", "remove", "archive", "cancel"}},
		{Verb: "UPLOAD", Patterns: []string{"upload", "save", "store", "backup"}},
		{Verb: "DOWNLOAD", Patterns: []string{"download", "export"}},
	}
}

func objectNouns() []NounEntry {
	return []NounEntry{
		{Noun: "EMAIL", Patterns: []string{"email", "mail", "inbox"}},
		{Noun: "MESSAGE", Patterns: []string{"message", "dm", "chat"}},
		{Noun: "TASK", Patterns: []string{"task", "todo", "to-do"}},
		{Noun: "ISSUE", Patterns: []string{"issue", "ticket", "bug"}},
		{Noun: "EVENT", Patterns: []string{"event", "meeting", "appointment"}},
		{Noun: "CONTACT", Patterns: []string{"contact", "lead", "customer"}},
		{Noun: "FILE", Patterns: []string{"file", "document", "attachment"}},
		{Noun: "ROW", Patterns: []string{"row", "record", "entry"}},
		{Noun: "PAGE", Patterns: []string{"page", "note"}},
		{Noun: "CARD", Patterns: []string{"card"}},
	}
}

func badPatterns() []BadPattern {
	return []BadPattern{
		{Suffix: "_LIST_FILES", Suggestion: "_LIST_FOLDER", Reason: "file listings are exposed per folder"},
		{Suffix: "_SEND_MAIL", Suggestion: "_SEND_EMAIL", Reason: "mail tools are published under EMAIL"},
		{Suffix: "_CREATE_ISSUE", Suggestion: "_CREATE_AN_ISSUE", Reason: "issue creation uses the AN_ISSUE form on some toolkits"},
		{Suffix: "_GET_ROWS", Suggestion: "_BATCH_GET", Reason: "row reads are batch operations"},
	}
}

func knownSlugs() map[string][]string {
	known := map[string][]string{}
	for toolkit, entries := range staticActions() {
		seen := map[string]bool{}
		for _, e := range entries {
			if !seen[e.Slug] {
				known[toolkit] = append(known[toolkit], e.Slug)
				seen[e.Slug] = true
			}
		}
	}
	return known
}
