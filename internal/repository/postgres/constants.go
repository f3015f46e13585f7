package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errAccountNotFound    = "account not found"
	errClientNotFound     = "client not found"
	errProjectNotFound    = "project not found"
	errMembershipNotFound = "membership not found"
	errCandidateNotFound  = "candidate not found"
	errLinkNotFound       = "link not found"
	errActiveLinkExists   = "an active onboarding link already exists for this candidate"
	errSubmissionNotFound = "submission not found"
	errTicketNotFound     = "ticket not found"
	errMessageNotFound    = "contact message not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateAccountFmt  = "failed to create account: %w"
	errFailedGetAccountFmt     = "failed to get account: %w"
	errFailedListAccountsFmt   = "failed to list accounts: %w"
	errFailedScanAccountFmt    = "failed to scan account: %w"
	errFailedUpdateAccountFmt  = "failed to update account: %w"
	errFailedTouchLastLoginFmt = "failed to update last login: %w"

	errFailedCreateClientFmt      = "failed to create client: %w"
	errFailedGetClientFmt         = "failed to get client: %w"
	errFailedListClientsFmt       = "failed to list clients: %w"
	errFailedScanClientFmt        = "failed to scan client: %w"
	errFailedUpdateClientFmt      = "failed to update client: %w"
	errFailedCheckClientAccessFmt = "failed to check client access: %w"

	errFailedCreateProjectFmt = "failed to create project: %w"
	errFailedGetProjectFmt    = "failed to get project: %w"
	errFailedListProjectsFmt  = "failed to list projects: %w"
	errFailedScanProjectFmt   = "failed to scan project: %w"
	errFailedUpdateProjectFmt = "failed to update project: %w"

	errFailedGrantMembershipFmt  = "failed to grant membership: %w"
	errFailedGetMembershipFmt    = "failed to get membership: %w"
	errFailedListMembershipsFmt  = "failed to list memberships: %w"
	errFailedScanMembershipFmt   = "failed to scan membership: %w"
	errFailedRevokeMembershipFmt = "failed to revoke membership: %w"

	errFailedCreateCandidateFmt = "failed to create candidate: %w"
	errFailedGetCandidateFmt    = "failed to get candidate: %w"
	errFailedListCandidatesFmt  = "failed to list candidates: %w"
	errFailedScanCandidateFmt   = "failed to scan candidate: %w"
	errFailedUpdateCandidateFmt = "failed to update candidate: %w"

	errFailedCreateLinkFmt     = "failed to create link: %w"
	errFailedSupersedeLinksFmt = "failed to supersede active links: %w"
	errFailedGetLinkFmt        = "failed to get link: %w"
	errFailedListLinksFmt      = "failed to list links: %w"
	errFailedScanLinkFmt       = "failed to scan link: %w"
	errFailedToggleLinkFmt     = "failed to toggle link: %w"
	errFailedExtendLinkFmt     = "failed to extend link: %w"
	errFailedCompleteLinkFmt   = "failed to complete link: %w"

	errFailedRecordSubmissionFmt = "failed to record submission: %w"
	errFailedGetSubmissionFmt    = "failed to get submission: %w"
	errFailedListSubmissionsFmt  = "failed to list submissions: %w"
	errFailedScanSubmissionFmt   = "failed to scan submission: %w"

	errFailedCreateTicketFmt = "failed to create ticket: %w"
	errFailedGetTicketFmt    = "failed to get ticket: %w"
	errFailedListTicketsFmt  = "failed to list tickets: %w"
	errFailedScanTicketFmt   = "failed to scan ticket: %w"
	errFailedUpdateTicketFmt = "failed to update ticket: %w"
	errFailedAddCommentFmt   = "failed to add comment: %w"
	errFailedListCommentsFmt = "failed to list comments: %w"
	errFailedScanCommentFmt  = "failed to scan comment: %w"

	errFailedCreateMessageFmt = "failed to create contact message: %w"
	errFailedListMessagesFmt  = "failed to list contact messages: %w"
	errFailedScanMessageFmt   = "failed to scan contact message: %w"
	errFailedUpdateMessageFmt = "failed to update contact message: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedStartTransaction  = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }

	errFailedCreateAccount  = func(err error) error { return fmt.Errorf(errFailedCreateAccountFmt, err) }
	errFailedGetAccount     = func(err error) error { return fmt.Errorf(errFailedGetAccountFmt, err) }
	errFailedListAccounts   = func(err error) error { return fmt.Errorf(errFailedListAccountsFmt, err) }
	errFailedScanAccount    = func(err error) error { return fmt.Errorf(errFailedScanAccountFmt, err) }
	errFailedUpdateAccount  = func(err error) error { return fmt.Errorf(errFailedUpdateAccountFmt, err) }
	errFailedTouchLastLogin = func(err error) error { return fmt.Errorf(errFailedTouchLastLoginFmt, err) }

	errFailedCreateClient      = func(err error) error { return fmt.Errorf(errFailedCreateClientFmt, err) }
	errFailedGetClient         = func(err error) error { return fmt.Errorf(errFailedGetClientFmt, err) }
	errFailedListClients       = func(err error) error { return fmt.Errorf(errFailedListClientsFmt, err) }
	errFailedScanClient        = func(err error) error { return fmt.Errorf(errFailedScanClientFmt, err) }
	errFailedUpdateClient      = func(err error) error { return fmt.Errorf(errFailedUpdateClientFmt, err) }
	errFailedCheckClientAccess = func(err error) error { return fmt.Errorf(errFailedCheckClientAccessFmt, err) }

	errFailedCreateProject = func(err error) error { return fmt.Errorf(errFailedCreateProjectFmt, err) }
	errFailedGetProject    = func(err error) error { return fmt.Errorf(errFailedGetProjectFmt, err) }
	errFailedListProjects  = func(err error) error { return fmt.Errorf(errFailedListProjectsFmt, err) }
	errFailedScanProject   = func(err error) error { return fmt.Errorf(errFailedScanProjectFmt, err) }
	errFailedUpdateProject = func(err error) error { return fmt.Errorf(errFailedUpdateProjectFmt, err) }

	errFailedGrantMembership  = func(err error) error { return fmt.Errorf(errFailedGrantMembershipFmt, err) }
	errFailedGetMembership    = func(err error) error { return fmt.Errorf(errFailedGetMembershipFmt, err) }
	errFailedListMemberships  = func(err error) error { return fmt.Errorf(errFailedListMembershipsFmt, err) }
	errFailedScanMembership   = func(err error) error { return fmt.Errorf(errFailedScanMembershipFmt, err) }
	errFailedRevokeMembership = func(err error) error { return fmt.Errorf(errFailedRevokeMembershipFmt, err) }

	errFailedCreateCandidate = func(err error) error { return fmt.Errorf(errFailedCreateCandidateFmt, err) }
	errFailedGetCandidate    = func(err error) error { return fmt.Errorf(errFailedGetCandidateFmt, err) }
	errFailedListCandidates  = func(err error) error { return fmt.Errorf(errFailedListCandidatesFmt, err) }
	errFailedScanCandidate   = func(err error) error { return fmt.Errorf(errFailedScanCandidateFmt, err) }
	errFailedUpdateCandidate = func(err error) error { return fmt.Errorf(errFailedUpdateCandidateFmt, err) }

	errFailedCreateLink     = func(err error) error { return fmt.Errorf(errFailedCreateLinkFmt, err) }
	errFailedSupersedeLinks = func(err error) error { return fmt.Errorf(errFailedSupersedeLinksFmt, err) }
	errFailedGetLink        = func(err error) error { return fmt.Errorf(errFailedGetLinkFmt, err) }
	errFailedListLinks      = func(err error) error { return fmt.Errorf(errFailedListLinksFmt, err) }
	errFailedScanLink       = func(err error) error { return fmt.Errorf(errFailedScanLinkFmt, err) }
	errFailedToggleLink     = func(err error) error { return fmt.Errorf(errFailedToggleLinkFmt, err) }
	errFailedExtendLink     = func(err error) error { return fmt.Errorf(errFailedExtendLinkFmt, err) }
	errFailedCompleteLink   = func(err error) error { return fmt.Errorf(errFailedCompleteLinkFmt, err) }

	errFailedRecordSubmission = func(err error) error { return fmt.Errorf(errFailedRecordSubmissionFmt, err) }
	errFailedGetSubmission    = func(err error) error { return fmt.Errorf(errFailedGetSubmissionFmt, err) }
	errFailedListSubmissions  = func(err error) error { return fmt.Errorf(errFailedListSubmissionsFmt, err) }
	errFailedScanSubmission   = func(err error) error { return fmt.Errorf(errFailedScanSubmissionFmt, err) }

	errFailedCreateTicket = func(err error) error { return fmt.Errorf(errFailedCreateTicketFmt, err) }
	errFailedGetTicket    = func(err error) error { return fmt.Errorf(errFailedGetTicketFmt, err) }
	errFailedListTickets  = func(err error) error { return fmt.Errorf(errFailedListTicketsFmt, err) }
	errFailedScanTicket   = func(err error) error { return fmt.Errorf(errFailedScanTicketFmt, err) }
	errFailedUpdateTicket = func(err error) error { return fmt.Errorf(errFailedUpdateTicketFmt, err) }
	errFailedAddComment   = func(err error) error { return fmt.Errorf(errFailedAddCommentFmt, err) }
	errFailedListComments = func(err error) error { return fmt.Errorf(errFailedListCommentsFmt, err) }
	errFailedScanComment  = func(err error) error { return fmt.Errorf(errFailedScanCommentFmt, err) }

	errFailedCreateMessage = func(err error) error { return fmt.Errorf(errFailedCreateMessageFmt, err) }
	errFailedListMessages  = func(err error) error { return fmt.Errorf(errFailedListMessagesFmt, err) }
	errFailedScanMessage   = func(err error) error { return fmt.Errorf(errFailedScanMessageFmt, err) }
	errFailedUpdateMessage = func(err error) error { return fmt.Errorf(errFailedUpdateMessageFmt, err) }
)
