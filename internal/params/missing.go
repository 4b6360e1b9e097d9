package params

import (
	"fmt"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// requiredBySlug is the static required-field table for tools the catalog
// vouches for. Dynamically fetched schemas refine this for everything else.
func requiredBySlug() map[string][]string {
	return map[string][]string{
		"GMAIL_SEND_EMAIL":                   {"recipient_email", "subject", "body"},
		"GMAIL_FETCH_EMAILS":                 {},
		"GMAIL_REPLY_TO_THREAD":              {"thread_id", "message_body"},
		"GMAIL_CREATE_EMAIL_DRAFT":           {"recipient_email", "subject", "body"},
		"SLACK_SEND_MESSAGE":                 {"channel", "text"},
		"SLACK_CREATE_CHANNEL":               {"channel_name"},
		"SLACK_LIST_CHANNELS":                {},
		"SLACK_SEARCH_MESSAGES":              {"query"},
		"DISCORD_SEND_MESSAGE":               {"channel_id", "content"},
		"TELEGRAM_SEND_MESSAGE":              {"chat_id", "text"},
		"WHATSAPP_SEND_MESSAGE":              {"phone_number", "text"},
		"GOOGLESHEETS_ADD_ROW":               {"spreadsheet_id", "values"},
		"GOOGLESHEETS_BATCH_GET":             {"spreadsheet_id"},
		"GOOGLESHEETS_BATCH_UPDATE":          {"spreadsheet_id", "values"},
		"GOOGLESHEETS_CREATE_SPREADSHEET":    {"title"},
		"GOOGLEDOCS_CREATE_DOCUMENT":         {"title"},
		"GOOGLEDOCS_GET_DOCUMENT_BY_ID":      {"document_id"},
		"GOOGLEDOCS_UPDATE_EXISTING_DOCUMENT": {"document_id", "content"},
		"GOOGLEDRIVE_UPLOAD_FILE":            {"file_name", "content"},
		"GOOGLEDRIVE_DOWNLOAD_FILE":          {"file_id"},
		"GOOGLEDRIVE_LIST_FOLDER":            {},
		"GOOGLEDRIVE_CREATE_FOLDER":          {"folder_name"},
		"GOOGLECALENDAR_CREATE_EVENT":        {"summary", "start_time"},
		"GOOGLECALENDAR_FIND_EVENT":          {},
		"GOOGLECALENDAR_DELETE_EVENT":        {"event_id"},
		"GITHUB_LIST_ISSUES":                 {"owner", "repo"},
		"GITHUB_CREATE_AN_ISSUE":             {"owner", "repo", "title"},
		"GITHUB_LIST_PULL_REQUESTS":          {"owner", "repo"},
		"GITHUB_STAR_A_REPOSITORY":           {"owner", "repo"},
		"NOTION_CREATE_PAGE":                 {"parent_page_id", "title"},
		"NOTION_QUERY_DATABASE":              {"database_id"},
		"NOTION_UPDATE_PAGE":                 {"page_id"},
		"TRELLO_CREATE_CARD":                 {"board_id", "name"},
		"TRELLO_GET_CARDS_ON_BOARD":          {"board_id"},
		"TRELLO_MOVE_CARD":                   {"card_id", "list_id"},
		"AIRTABLE_CREATE_RECORD":             {"base_id", "table_name", "fields"},
		"AIRTABLE_LIST_RECORDS":              {"base_id", "table_name"},
		"AIRTABLE_UPDATE_RECORD":             {"base_id", "table_name", "record_id"},
		"CLICKUP_CREATE_TASK":                {"list_id", "name"},
		"CLICKUP_GET_TASKS":                  {"list_id"},
		"CLICKUP_UPDATE_TASK":                {"task_id"},
		"JIRA_CREATE_ISSUE":                  {"project_key", "summary"},
		"JIRA_SEARCH_ISSUES":                 {"jql"},
		"JIRA_UPDATE_ISSUE":                  {"issue_key"},
		"HUBSPOT_CREATE_CONTACT":             {"email"},
		"HUBSPOT_CREATE_DEAL":                {"deal_name"},
		"HUBSPOT_LIST_CONTACTS":              {},
		"TWITTER_CREATION_OF_A_POST":         {"text"},
		"TWITTER_RECENT_SEARCH":              {"query"},
		"LINEAR_CREATE_ISSUE":                {"team_id", "title"},
		"LINEAR_LIST_ISSUES":                 {},
	}
}

// RequiredParams returns the required field list for a slug: the static
// table when it knows the slug, otherwise whatever schema the discovery
// collaborator fetched, otherwise nil (nothing to demand).
func (r *Resolver) RequiredParams(contract *domain.ToolContract) []string {
	if required, ok := r.required[contract.Slug]; ok {
		return required
	}
	if len(contract.RequiredParams) > 0 {
		return contract.RequiredParams
	}
	return nil
}

// MissingRequired diffs the required field list against non-empty resolved
// values, alias-aware. Adding a parameter source can only shrink the result.
func (r *Resolver) MissingRequired(contract *domain.ToolContract, resolved map[string]interface{}) []string {
	var missing []string
	for _, req := range r.RequiredParams(contract) {
		if !r.hasResolvedValue(req, resolved) {
			missing = append(missing, req)
		}
	}
	return missing
}

func (r *Resolver) hasResolvedValue(param string, resolved map[string]interface{}) bool {
	if nonEmpty(resolved[param]) {
		return true
	}
	norm := Normalize(param)
	if nonEmpty(resolved[norm]) {
		return true
	}
	for _, m := range r.aliases.Group(param) {
		if nonEmpty(resolved[m]) {
			return true
		}
	}
	for key, value := range resolved {
		if !nonEmpty(value) {
			continue
		}
		keyNorm := Normalize(key)
		for _, m := range r.aliases.Group(param) {
			if strings.HasSuffix(keyNorm, "_"+m) {
				return true
			}
		}
	}
	return false
}

func nonEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t)) != ""
	}
}
