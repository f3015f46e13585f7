package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"
	jsonKeyToken   = "token"

	paramID        = "id"
	paramProjectID = "project_id"
	paramAccountID = "account_id"
	paramToken     = "token"

	formFieldFile       = "file"
	formFieldPayerName  = "payer_name"
	formFieldPayerEmail = "payer_email"
	formFieldReference  = "reference"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid credentials"
	msgAccountDisabled         = "invalid credentials"
	msgPasswordProcessFail     = "failed to process password"
	msgGenerateTokenFail       = "failed to generate session token"
	msgEmailAlreadyExists      = "email already in use"
	msgHandleAlreadyExists     = "handle already in use"

	msgInvalidAccountID   = "invalid account id"
	msgInvalidClientID    = "invalid client id"
	msgInvalidProjectID   = "invalid project id"
	msgInvalidCandidateID = "invalid candidate id"
	msgInvalidLinkID      = "invalid link id"
	msgInvalidTicketID    = "invalid ticket id"
	msgInvalidMessageID   = "invalid message id"
	msgInvalidRole        = "role must be admin or staff"
	msgInvalidStatus      = "invalid status"
	msgInvalidAmount      = "invalid amount"

	msgAccountNotFound   = "account not found"
	msgClientNotFound    = "client not found"
	msgProjectNotFound   = "project not found"
	msgCandidateNotFound = "candidate not found"
	msgTicketNotFound    = "ticket not found"

	msgCreateAccountFail   = "failed to create account"
	msgListAccountsFail    = "failed to list accounts"
	msgUpdateAccountFail   = "failed to update account"
	msgCreateClientFail    = "failed to create client"
	msgListClientsFail     = "failed to list clients"
	msgUpdateClientFail    = "failed to update client"
	msgCreateProjectFail   = "failed to create project"
	msgGetProjectFail      = "failed to load project"
	msgGetClientFail       = "failed to load client"
	msgListProjectsFail    = "failed to list projects"
	msgUpdateProjectFail   = "failed to update project"
	msgGrantMembershipFail = "failed to grant membership"
	msgListMembersFail     = "failed to list members"
	msgRevokeMemberFail    = "failed to revoke membership"
	msgCreateCandidateFail = "failed to create candidate"
	msgListCandidatesFail  = "failed to list candidates"
	msgUpdateCandidateFail = "failed to update candidate"
	msgCreateTicketFail    = "failed to create ticket"
	msgListTicketsFail     = "failed to list tickets"
	msgAddCommentFail      = "failed to add comment"
	msgCreateMessageFail   = "failed to record message"
	msgListMessagesFail    = "failed to list messages"
	msgExportPaymentsFail  = "failed to export payments"

	msgMissingFile    = "file field is required"
	msgFileReadFail   = "failed to read uploaded file"
	msgMembershipGone = "membership not found"
	msgTicketClosed   = "ticket is closed"
	msgMessageQueued  = "message received"
	msgMemberRevoked  = "membership revoked"
	msgMarkedHandled  = "message marked handled"
)
