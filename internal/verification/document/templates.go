package document

const letterStyle = `
    body { font-family: Georgia, 'Times New Roman', serif; margin: 40px 60px; color: #1a1a1a; }
    .letterhead { text-align: center; border-bottom: 3px double #1a365d; padding-bottom: 12px; }
    .letterhead h1 { margin: 0; color: #1a365d; font-size: 22px; letter-spacing: 1px; }
    .letterhead p { margin: 4px 0 0; font-size: 12px; color: #555; }
    .meta { display: flex; justify-content: space-between; margin: 24px 0 8px; font-size: 13px; }
    h2 { text-align: center; font-size: 16px; text-decoration: underline; margin: 24px 0; }
    table.details { width: 100%; border-collapse: collapse; margin: 16px 0; font-size: 13px; }
    table.details td { border: 1px solid #999; padding: 6px 10px; }
    table.details td.label { width: 35%; background: #f2f2f2; font-weight: bold; }
    .status { margin: 20px 0; padding: 12px; font-size: 14px; }
    .status.approved { background: #e9f7ec; border-left: 4px solid #2f855a; }
    .status.rejected { background: #fdecea; border-left: 4px solid #c53030; }
    .status.receipt { background: #ebf4fb; border-left: 4px solid #2b6cb0; }
    .signatures { display: flex; justify-content: space-between; margin-top: 80px; font-size: 13px; }
    .signatures .block { text-align: center; width: 40%; border-top: 1px solid #333; padding-top: 6px; }
`

const confirmationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Verification Confirmation</title>
<style>` + letterStyle + `</style>
</head>
<body>
  <div class="letterhead">
    <h1>{{.Institution}}</h1>
    <p>Office of the Controller of Examinations &mdash; Document Verification Cell</p>
  </div>
  <div class="meta">
    <span>Ref. No.: {{.Reference}}</span>
    <span>Date: {{.IssuedOn}}</span>
  </div>
  <h2>TO WHOMSOEVER IT MAY CONCERN</h2>
  <p>This is to certify that the academic credentials submitted for verification,
  with the particulars set out below, have been examined against the records of
  the university and are found to be genuine.</p>
  <table class="details">
    <tr><td class="label">Name of Candidate</td><td>{{.Request.FirstName}} {{.Request.LastName}}</td></tr>
    <tr><td class="label">Student Number</td><td>{{.Request.StudentNumber}}</td></tr>
    <tr><td class="label">School</td><td>{{.Request.SchoolName}}</td></tr>
    {{if .Request.CampusName}}<tr><td class="label">Campus</td><td>{{.Request.CampusName}}</td></tr>{{end}}
    <tr><td class="label">Program</td><td>{{.Request.ProgramName}}</td></tr>
    {{if .Request.Stream}}<tr><td class="label">Stream</td><td>{{.Request.Stream}}</td></tr>{{end}}
    <tr><td class="label">Year of Passing</td><td>{{.Request.YearOfPassing}}</td></tr>
    {{if .Request.CGPA}}<tr><td class="label">CGPA</td><td>{{.Request.CGPA}}</td></tr>{{end}}
  </table>
  <div class="status approved">
    <strong>VERIFICATION STATUS: CONFIRMED.</strong>
    The particulars above match the university's records.
    {{if .Remarks}}<br>Remarks: {{.Remarks}}{{end}}
  </div>
  <div class="signatures">
    <div class="block">{{if .VerifiedBy}}{{.VerifiedBy}}<br>{{end}}Verification Officer</div>
    <div class="block">Controller of Examinations</div>
  </div>
</body>
</html>`

const rejectionHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Verification Rejection</title>
<style>` + letterStyle + `</style>
</head>
<body>
  <div class="letterhead">
    <h1>{{.Institution}}</h1>
    <p>Office of the Controller of Examinations &mdash; Document Verification Cell</p>
  </div>
  <div class="meta">
    <span>Ref. No.: {{.Reference}}</span>
    <span>Date: {{.IssuedOn}}</span>
  </div>
  <h2>VERIFICATION OUTCOME</h2>
  <p>The verification request with the particulars set out below has been
  examined against the records of the university and could not be confirmed.</p>
  <table class="details">
    <tr><td class="label">Name of Candidate</td><td>{{.Request.FirstName}} {{.Request.LastName}}</td></tr>
    <tr><td class="label">Student Number</td><td>{{.Request.StudentNumber}}</td></tr>
    <tr><td class="label">School</td><td>{{.Request.SchoolName}}</td></tr>
    <tr><td class="label">Program</td><td>{{.Request.ProgramName}}</td></tr>
    <tr><td class="label">Year of Passing</td><td>{{.Request.YearOfPassing}}</td></tr>
  </table>
  <div class="status rejected">
    <strong>VERIFICATION STATUS: NOT CONFIRMED.</strong><br>
    Reason: {{.Reason}}
  </div>
  <div class="signatures">
    <div class="block">Verification Officer</div>
    <div class="block">Controller of Examinations</div>
  </div>
</body>
</html>`

const receiptHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment Receipt</title>
<style>` + letterStyle + `</style>
</head>
<body>
  <div class="letterhead">
    <h1>{{.Institution}}</h1>
    <p>Office of the Controller of Examinations &mdash; Document Verification Cell</p>
  </div>
  <div class="meta">
    <span>Receipt No.: {{.Reference}}</span>
    <span>Date: {{.IssuedOn}}</span>
  </div>
  <h2>FEE PAYMENT RECEIPT</h2>
  <table class="details">
    <tr><td class="label">Received From</td><td>{{.Request.FirstName}} {{.Request.LastName}}</td></tr>
    <tr><td class="label">Student Number</td><td>{{.Request.StudentNumber}}</td></tr>
    <tr><td class="label">Transaction ID</td><td>{{.Request.TransactionID}}</td></tr>
    <tr><td class="label">Mode of Payment</td><td>{{.Request.BankDetails}}</td></tr>
    <tr><td class="label">Verification Fee</td><td>&#8377; {{.Request.BaseAmount}}</td></tr>
    <tr><td class="label">GST (18%)</td><td>&#8377; {{.Request.TaxAmount}}</td></tr>
    <tr><td class="label">Total Received</td><td>&#8377; {{.Request.TotalPaymentReceived}}</td></tr>
  </table>
  <div class="status receipt">
    <strong>Payment received.</strong> Subject to validation by the Accounts
    department before verification proceeds.
  </div>
  <div class="signatures">
    <div class="block">Accounts Department</div>
    <div class="block">Controller of Examinations</div>
  </div>
</body>
</html>`
